// Package filestore хранит содержимое загруженных баннеров.
// Метаданные файлов лежат в PostgreSQL, здесь только байты по ключу.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/magabrotheeeer/meetapp/internal/config"
)

// ErrNotExist возвращается, если по ключу ничего не сохранено.
var ErrNotExist = errors.New("file does not exist in store")

// ErrInvalidKey возвращается для ключей, содержащих путь.
var ErrInvalidKey = errors.New("invalid file key")

// Store хранилище файлов по ключу.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// New создаёт хранилище по настройке Driver.
func New(ctx context.Context, cfg config.FileStorage, log *slog.Logger) (Store, error) {
	const op = "filestore.New"
	switch cfg.Driver {
	case "", "local":
		log.Info("using local file store", slog.String("dir", cfg.Dir))
		return NewLocal(cfg.Dir)
	case "s3":
		log.Info("using s3 file store", slog.String("bucket", cfg.S3.Bucket))
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("%s: unknown driver %q", op, cfg.Driver)
	}
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || filepath.Base(key) != key {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
