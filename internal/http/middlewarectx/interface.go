package middlewarectx

import "context"

// Service описывает интерфейс сервиса для валидации JWT токена.
type Service interface {
	// ValidateToken возвращает ID пользователя, которому выдан токен.
	ValidateToken(ctx context.Context, token string) (int64, error)
}
