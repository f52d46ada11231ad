// Package create реализует HTTP-обработчик подписки на встречу.
package create

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
	"github.com/magabrotheeeer/meetapp/internal/metrics"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

// Service описывает оформление подписки.
type Service interface {
	Subscribe(ctx context.Context, meetupID, subscriberID int64) (*models.Subscription, error)
}

// Handler обрабатывает запросы подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт обработчик подписки.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подписка на встречу
// @Description Подписывает текущего пользователя на чужую будущую встречу. Нельзя иметь две подписки на одно время.
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID встречи"
// @Success 200 {object} response.Response "Созданная подписка"
// @Failure 400 {object} response.ErrorResponse "Встреча уже прошла"
// @Failure 401 {object} response.ErrorResponse "Своя встреча или конфликт по времени"
// @Failure 404 {object} response.ErrorResponse "Встреча не найдена"
// @Router /meetups/{id}/subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"

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

	meetupID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || meetupID <= 0 {
		log.Info("failed to decode id from url", slog.String("id", chi.URLParam(r, "id")))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	sub, err := h.service.Subscribe(r.Context(), meetupID, userID)
	if err != nil {
		log.Info("failed to subscribe", slog.Int64("meetup_id", meetupID), sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}
	metrics.SubscriptionsCreated.Inc()

	log.Info("subscription created", slog.Int64("subscription_id", sub.ID))
	render.JSON(w, r, response.OKWithData(sub))
}
