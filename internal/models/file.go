package models

import (
	"strings"
	"time"
)

// File метаданные загруженного баннера.
// Name содержит исходное имя файла у клиента, Path ключ в файловом хранилище.
type File struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileURL собирает публичную ссылку на файл по базовому адресу сервиса.
func FileURL(publicURL, path string) string {
	return strings.TrimRight(publicURL, "/") + "/api/v1/files/" + path
}
