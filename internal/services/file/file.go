// Package services содержит загрузку и выдачу баннеров встреч.
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/meetapp/internal/filestore"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

// sniffLen сколько байт читается для определения типа содержимого.
const sniffLen = 3072

// FileRepository описывает хранение метаданных файлов.
type FileRepository interface {
	CreateFile(ctx context.Context, file models.File) (*models.File, error)
	GetFileByPath(ctx context.Context, path string) (*models.File, error)
}

// FileService сохраняет баннеры в filestore.Store и их метаданные в репозитории.
type FileService struct {
	files     FileRepository
	store     filestore.Store
	publicURL string
	log       *slog.Logger
}

// NewFileService создает новый экземпляр FileService.
func NewFileService(files FileRepository, store filestore.Store, publicURL string, log *slog.Logger) *FileService {
	return &FileService{
		files:     files,
		store:     store,
		publicURL: publicURL,
		log:       log,
	}
}

// Upload сохраняет изображение под сгенерированным ключом <uuid><ext>.
// Содержимое, не являющееся изображением, отклоняется с models.ErrUnsupportedContent.
func (s *FileService) Upload(ctx context.Context, filename string, r io.Reader) (*models.File, error) {
	const op = "services.file.Upload"

	head, mtype, err := sniff(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, models.ErrUnsupportedContent
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !validExt(ext) {
		ext = mtype.Extension()
	}
	key := uuid.NewString() + ext

	if err = s.store.Save(ctx, key, io.MultiReader(bytes.NewReader(head), r), mtype.String()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	file, err := s.files.CreateFile(ctx, models.File{Name: filepath.Base(filename), Path: key})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Warn("failed to remove orphaned file", slog.String("key", key), sl.Err(delErr))
		}
		return nil, err
	}
	file.URL = models.FileURL(s.publicURL, file.Path)

	s.log.Info("file uploaded", slog.Int64("file_id", file.ID), slog.String("path", key))
	return file, nil
}

// Open возвращает содержимое файла по ключу и его тип.
// Вызывающий обязан закрыть reader.
func (s *FileService) Open(ctx context.Context, path string) (io.ReadCloser, string, error) {
	const op = "services.file.Open"

	if _, err := s.files.GetFileByPath(ctx, path); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", models.ErrFileNotFound
		}
		return nil, "", err
	}

	rc, err := s.store.Open(ctx, path)
	if errors.Is(err, filestore.ErrNotExist) {
		return nil, "", models.ErrFileNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	head, mtype, err := sniff(rc)
	if err != nil {
		_ = rc.Close()
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return readCloser{Reader: io.MultiReader(bytes.NewReader(head), rc), Closer: rc}, mtype.String(), nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

func sniff(r io.Reader) ([]byte, *mimetype.MIME, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, nil, err
	}
	head = head[:n]
	return head, mimetype.Detect(head), nil
}

// validExt допускает расширения вида ".png": точка и хотя бы один символ [a-z0-9].
// Остальное заменяется расширением по содержимому, чтобы ключ переживал разбор URL.
func validExt(ext string) bool {
	if len(ext) < 2 || ext[0] != '.' {
		return false
	}
	for _, c := range ext[1:] {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
