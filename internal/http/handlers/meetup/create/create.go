// Package create реализует HTTP-обработчик создания встречи.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/meetapp/internal/http/middlewarectx"
	"github.com/magabrotheeeer/meetapp/internal/http/response"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/metrics"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

// Request: данные новой встречи. Дата передаётся в RFC3339.
type Request struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description" validate:"required"`
	Location    string    `json:"location" validate:"required,max=255"`
	Date        time.Time `json:"date" validate:"required"`
	FileID      *int64    `json:"file_id" validate:"required,gt=0"`
}

// Service описывает создание встречи.
type Service interface {
	Create(ctx context.Context, organizerID int64, in models.MeetupInput) (*models.MeetupDetails, error)
}

// Handler обрабатывает запросы создания встречи.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт обработчик создания встречи.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: response.NewValidator(),
	}
}

// ServeHTTP godoc
// @Summary Создание встречи
// @Description Создаёт встречу текущего пользователя. Дата не может быть в прошлом, баннер должен существовать.
// @Tags Meetups
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Данные встречи"
// @Success 200 {object} response.Response "Созданная встреча"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, прошедшая дата или нет баннера"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /meetups [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.meetup.create"

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

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		errors.As(err, &verrs)
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(verrs))
		return
	}

	meetup, err := h.service.Create(r.Context(), userID, models.MeetupInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		FileID:      req.FileID,
	})
	if err != nil {
		log.Info("failed to create meetup", sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}
	metrics.MeetupsCreated.Inc()

	log.Info("meetup created", slog.Int64("meetup_id", meetup.ID))
	render.JSON(w, r, response.OKWithData(meetup))
}
