package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Local хранит файлы в каталоге на диске.
type Local struct {
	dir string
}

// NewLocal создаёт каталог dir при необходимости.
func NewLocal(dir string) (*Local, error) {
	const op = "filestore.NewLocal"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Local{dir: dir}, nil
}

// Save записывает содержимое r в файл key.
func (l *Local) Save(_ context.Context, key string, r io.Reader, _ string) error {
	const op = "filestore.Local.Save"
	if err := validateKey(key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	path := filepath.Join(l.dir, key)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Open открывает файл key на чтение.
func (l *Local) Open(_ context.Context, key string) (io.ReadCloser, error) {
	const op = "filestore.Local.Open"
	if err := validateKey(key); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f, err := os.Open(filepath.Join(l.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return f, nil
}

// Delete удаляет файл key. Отсутствие файла не ошибка.
func (l *Local) Delete(_ context.Context, key string) error {
	const op = "filestore.Local.Delete"
	if err := validateKey(key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := os.Remove(filepath.Join(l.dir, key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
