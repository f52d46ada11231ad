// Package list реализует HTTP-обработчик постраничного списка встреч
// с необязательным фильтром по дню.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/meetapp/internal/http/response"
	"github.com/magabrotheeeer/meetapp/internal/lib/dates"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

// Service описывает выборку встреч.
type Service interface {
	List(ctx context.Context, day *time.Time, page, limit int) ([]models.MeetupDetails, error)
}

// Handler обрабатывает запросы списка встреч.
type Handler struct {
	log      *slog.Logger
	service  Service
	location *time.Location
}

// New создаёт обработчик. Дни фильтра считаются в часовом поясе loc.
func New(log *slog.Logger, service Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		log:      log,
		service:  service,
		location: loc,
	}
}

// ServeHTTP godoc
// @Summary Список встреч
// @Description Возвращает страницу встреч по возрастанию даты. Фильтр date выбирает встречи одного дня.
// @Tags Meetups
// @Produce  json
// @Security BearerAuth
// @Param date query string false "День в формате YYYY-MM-DD или RFC3339"
// @Param page query int false "Номер страницы, с 1"
// @Param limit query int false "Размер страницы, до 100"
// @Success 200 {object} response.Response "Список встреч"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /meetups [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.meetup.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()

	var day *time.Time
	if v := query.Get("date"); v != "" {
		parsed, err := dates.ParseDay(v, h.location)
		if err != nil {
			log.Info("invalid date filter", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid date"))
			return
		}
		day = &parsed
	}

	page, err := intParam(query.Get("page"))
	if err != nil {
		log.Info("invalid page", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid page"))
		return
	}
	limit, err := intParam(query.Get("limit"))
	if err != nil {
		log.Info("invalid limit", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid limit"))
		return
	}

	meetups, err := h.service.List(r.Context(), day, page, limit)
	if err != nil {
		log.Error("failed to list meetups", sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("meetups listed", slog.Int("count", len(meetups)))
	render.JSON(w, r, response.OKWithData(meetups))
}

// intParam разбирает необязательный неотрицательный параметр; пустое значение даёт 0.
func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
