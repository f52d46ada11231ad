// Package models содержит доменные структуры сервиса встреч: пользователей,
// файлы баннеров, встречи и подписки, а также доменные ошибки.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
// Пароль в открытом виде никогда не хранится, только PasswordHash.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser: представление пользователя для ответов API, без хэша пароля.
type PublicUser struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Resource возвращает публичное представление пользователя.
func (u User) Resource() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserUpdate набор изменяемых полей профиля. nil означает, что поле не меняется.
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

// ProfileUpdate изменения профиля, запрошенные пользователем.
// Password меняется только вместе с подтверждённым OldPassword.
type ProfileUpdate struct {
	Name        *string
	Email       *string
	Password    *string
	OldPassword *string
}
