// Package remove реализует HTTP-обработчик удаления встречи организатором.
package remove

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/meetapp/internal/http/middlewarectx"
	"github.com/magabrotheeeer/meetapp/internal/http/response"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
)

// Service описывает удаление встречи.
type Service interface {
	Delete(ctx context.Context, id, organizerID int64) error
}

// Handler обрабатывает запросы удаления встречи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт обработчик удаления встречи.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удаление встречи
// @Description Удаляет будущую встречу текущего организатора вместе с подписками на неё.
// @Tags Meetups
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID встречи"
// @Success 200 {object} response.Response "Встреча удалена"
// @Failure 400 {object} response.ErrorResponse "Чужая или прошедшая встреча"
// @Failure 404 {object} response.ErrorResponse "Встреча не найдена"
// @Router /meetups/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.meetup.remove"

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

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		log.Info("failed to decode id from url", slog.String("id", chi.URLParam(r, "id")))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	if err = h.service.Delete(r.Context(), id, userID); err != nil {
		log.Info("failed to delete meetup", slog.Int64("meetup_id", id), sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("meetup deleted", slog.Int64("meetup_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"success": true,
	}))
}
