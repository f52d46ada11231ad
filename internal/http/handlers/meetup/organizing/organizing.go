// Package organizing реализует HTTP-обработчик списка встреч текущего организатора.
package organizing

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/meetapp/internal/http/middlewarectx"
	"github.com/magabrotheeeer/meetapp/internal/http/response"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

// Service описывает выборку встреч организатора.
type Service interface {
	ListOrganizing(ctx context.Context, organizerID int64) ([]models.MeetupDetails, error)
}

// Handler обрабатывает запросы списка своих встреч.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Мои встречи
// @Description Возвращает все встречи текущего пользователя по возрастанию даты.
// @Tags Meetups
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Список встреч"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Router /organizing [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.meetup.organizing"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		log.Error("user id not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	meetups, err := h.service.ListOrganizing(r.Context(), userID)
	if err != nil {
		log.Error("failed to list organizer meetups", sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	render.JSON(w, r, response.OKWithData(meetups))
}
