// Package services содержит логику аутентификации: вход по email и паролю и проверку JWT.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/meetapp/internal/lib/jwt"
	"github.com/magabrotheeeer/meetapp/internal/lib/password"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

// UserRepository описывает поиск пользователя для входа.
type UserRepository interface {
	// GetUserByEmail возвращает пользователя по email или models.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService отвечает за авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Login проверяет пароль пользователя и выпускает JWT.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, "", models.ErrUserNotFound
	}
	if err != nil {
		return nil, "", err
	}

	if err = password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, "", models.ErrPasswordMismatch
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug("user logged in", slog.Int64("user_id", user.ID))
	return user, token, nil
}

// ValidateToken проверяет JWT и возвращает ID пользователя.
func (s *AuthService) ValidateToken(_ context.Context, token string) (int64, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", models.ErrInvalidToken, err)
	}
	return claims.UserID, nil
}
