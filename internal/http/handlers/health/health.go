// Package health реализует проверку готовности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/meetapp/internal/http/response"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
)

// CheckFunc проверяет доступность зависимости.
type CheckFunc func(ctx context.Context) error

// Handler отвечает на проверку готовности.
type Handler struct {
	log   *slog.Logger
	check CheckFunc
}

// New создаёт обработчик проверки готовности.
func New(log *slog.Logger, check CheckFunc) *Handler {
	return &Handler{
		log:   log,
		check: check,
	}
}

// ServeHTTP отвечает 200, если база доступна и миграции применены, иначе 503.
// Маршрут смонтирован вне /api/v1 и в Swagger-описание не входит.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if err := h.check(r.Context()); err != nil {
		h.log.Error("database is not ready", slog.String("op", op), sl.Err(err))
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database unavailable"))
		return
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
