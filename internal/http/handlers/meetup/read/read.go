// Package read реализует HTTP-обработчик получения встречи по ID.
package read

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/meetapp/internal/http/response"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

// Service описывает чтение встречи.
type Service interface {
	Get(ctx context.Context, id int64) (*models.MeetupDetails, error)
}

// Handler обрабатывает запросы чтения встречи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт обработчик чтения встречи.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получение встречи
// @Description Возвращает встречу с организатором и баннером.
// @Tags Meetups
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID встречи"
// @Success 200 {object} response.Response "Встреча"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Встреча не найдена"
// @Router /meetups/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.meetup.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		log.Info("failed to decode id from url", slog.String("id", chi.URLParam(r, "id")))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	meetup, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Info("failed to get meetup", slog.Int64("meetup_id", id), sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	render.JSON(w, r, response.OKWithData(meetup))
}
