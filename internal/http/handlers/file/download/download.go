// Package download реализует публичную выдачу загруженных файлов.
package download

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/meetapp/internal/http/response"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
)

// Service описывает чтение сохранённого файла.
type Service interface {
	Open(ctx context.Context, path string) (io.ReadCloser, string, error)
}

// Handler отдаёт содержимое файла по его пути.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт обработчик выдачи файлов.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получение файла
// @Description Возвращает содержимое загруженного файла.
// @Tags Files
// @Produce  octet-stream
// @Param path path string true "Путь файла"
// @Success 200 {file} file "Содержимое файла"
// @Failure 404 {object} response.ErrorResponse "Файл не найден"
// @Router /files/{path} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.file.download"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	path := chi.URLParam(r, "path")
	// URLFormat отрезает расширение от пути маршрута.
	if ext, ok := r.Context().Value(middleware.URLFormatCtxKey).(string); ok && ext != "" {
		path += "." + ext
	}

	rc, contentType, err := h.service.Open(r.Context(), path)
	if err != nil {
		log.Info("failed to open file", slog.String("path", path), sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err = io.Copy(w, rc); err != nil {
		log.Error("failed to write file", slog.String("path", path), sl.Err(err))
	}
}
