package repository

import (
	"context"

	"github.com/magabrotheeeer/meetapp/internal/models"
)

const fileColumns = `id, name, path, created_at, updated_at`

func scanFile(row rowScanner) (*models.File, error) {
	f := &models.File{}
	if err := row.Scan(&f.ID, &f.Name, &f.Path, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return f, nil
}

// CreateFile сохраняет метаданные загруженного файла.
func (s *Storage) CreateFile(ctx context.Context, file models.File) (*models.File, error) {
	const op = "storage.CreateFile"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO files (name, path) VALUES ($1, $2) RETURNING ` + fileColumns
	f, err := scanFile(s.DB.QueryRowContext(ctx, query, file.Name, file.Path))
	if err != nil {
		return nil, mapError(op, err)
	}
	return f, nil
}

// GetFile возвращает файл по ID.
func (s *Storage) GetFile(ctx context.Context, id int64) (*models.File, error) {
	const op = "storage.GetFile"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	f, err := scanFile(s.DB.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM files WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(op, err)
	}
	return f, nil
}

// GetFileByPath возвращает файл по ключу в хранилище.
func (s *Storage) GetFileByPath(ctx context.Context, path string) (*models.File, error) {
	const op = "storage.GetFileByPath"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	f, err := scanFile(s.DB.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM files WHERE path = $1`, path))
	if err != nil {
		return nil, mapError(op, err)
	}
	return f, nil
}
