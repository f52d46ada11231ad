// Package update реализует HTTP-обработчик изменения встречи организатором.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/meetapp/internal/http/middlewarectx"
	"github.com/magabrotheeeer/meetapp/internal/http/response"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

// Request: изменяемые поля встречи. Отсутствующее поле не меняется.
type Request struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,min=1"`
	Location    *string    `json:"location" validate:"omitempty,min=1,max=255"`
	Date        *time.Time `json:"date"`
	FileID      *int64     `json:"file_id" validate:"omitempty,gt=0"`
}

// Service описывает изменение встречи.
type Service interface {
	Update(ctx context.Context, id, organizerID int64, upd models.MeetupUpdate) (*models.MeetupDetails, error)
}

// Handler обрабатывает запросы изменения встречи.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт обработчик изменения встречи.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: response.NewValidator(),
	}
}

// ServeHTTP godoc
// @Summary Изменение встречи
// @Description Частично обновляет будущую встречу текущего организатора.
// @Tags Meetups
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID встречи"
// @Param request body Request true "Изменяемые поля"
// @Success 200 {object} response.Response "Обновлённая встреча"
// @Failure 400 {object} response.ErrorResponse "Чужая или прошедшая встреча, прошедшая дата"
// @Failure 404 {object} response.ErrorResponse "Встреча не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /meetups/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.meetup.update"

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

	var req Request
	if err = render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err = h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		errors.As(err, &verrs)
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(verrs))
		return
	}

	meetup, err := h.service.Update(r.Context(), id, userID, models.MeetupUpdate{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		FileID:      req.FileID,
	})
	if err != nil {
		log.Info("failed to update meetup", slog.Int64("meetup_id", id), sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("meetup updated", slog.Int64("meetup_id", id))
	render.JSON(w, r, response.OKWithData(meetup))
}
