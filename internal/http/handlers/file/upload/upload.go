// Package upload реализует HTTP-обработчик загрузки баннеров встреч.
package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/meetapp/internal/http/response"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

// FormField имя поля multipart-формы с файлом.
const FormField = "file"

// Service описывает сохранение загруженного файла.
type Service interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*models.File, error)
}

// Handler принимает multipart-запрос и сохраняет файл.
type Handler struct {
	log     *slog.Logger
	service Service
	maxSize int64
}

// New создаёт обработчик. maxSize ограничивает размер тела запроса в байтах.
func New(log *slog.Logger, service Service, maxSize int64) *Handler {
	return &Handler{
		log:     log,
		service: service,
		maxSize: maxSize,
	}
}

// ServeHTTP godoc
// @Summary Загрузка файла
// @Description Загружает изображение для баннера встречи. Возвращает id, имя, путь и ссылку.
// @Tags Files
// @Accept  mpfd
// @Produce  json
// @Security BearerAuth
// @Param file formData file true "Изображение"
// @Success 200 {object} response.Response "Загруженный файл"
// @Failure 400 {object} response.ErrorResponse "Нет файла, слишком большой файл или не изображение"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /files [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.file.upload"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.ContentLength > h.maxSize {
		log.Info("request body too large", slog.Int64("content_length", r.ContentLength))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("file is too large"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)
	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		log.Info("failed to parse multipart form", sl.Err(err))
		msg := "invalid multipart form"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = "file is too large"
		}
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(msg))
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile(FormField)
	if err != nil {
		log.Info("file part not found", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("field file is a required field"))
		return
	}
	defer file.Close()

	stored, err := h.service.Upload(r.Context(), header.Filename, file)
	if err != nil {
		log.Error("failed to upload file", sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("file uploaded", slog.Int64("file_id", stored.ID))
	render.JSON(w, r, response.OKWithData(stored))
}
