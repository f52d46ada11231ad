// Package services содержит бизнес-логику регистрации и изменения профиля пользователей.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/meetapp/internal/lib/password"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

// UserRepository описывает доступ к пользователям в хранилище.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
}

// UserService отвечает за регистрацию и обновление профиля.
type UserService struct {
	users UserRepository
	log   *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(users UserRepository, log *slog.Logger) *UserService {
	return &UserService{
		users: users,
		log:   log,
	}
}

// Register создаёт пользователя с хэшированным паролем.
// Занятый email возвращается как models.ErrUserExists.
func (s *UserService) Register(ctx context.Context, email, name, rawPassword string) (*models.User, error) {
	const op = "services.user.Register"

	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
	})
	if errors.Is(err, models.ErrAlreadyExists) {
		return nil, models.ErrUserExists
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", slog.Int64("user_id", user.ID))
	return user, nil
}

// Update применяет изменения профиля пользователя userID.
func (s *UserService) Update(ctx context.Context, userID int64, upd models.ProfileUpdate) (*models.User, error) {
	const op = "services.user.Update"

	user, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if upd.Email != nil && *upd.Email != user.Email {
		if err = s.ensureEmailFree(ctx, *upd.Email); err != nil {
			return nil, err
		}
	}

	if upd.OldPassword != nil {
		if err = password.CompareHash(user.PasswordHash, *upd.OldPassword); err != nil {
			if errors.Is(err, password.ErrMismatch) {
				return nil, models.ErrPasswordMismatch
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	changes := models.UserUpdate{Name: upd.Name, Email: upd.Email}
	if upd.Password != nil {
		hashed, err := password.GetHash(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		changes.PasswordHash = &hashed
	}

	updated, err := s.users.UpdateUser(ctx, userID, changes)
	switch {
	case errors.Is(err, models.ErrAlreadyExists):
		return nil, models.ErrUserExists
	case errors.Is(err, models.ErrNotFound):
		return nil, models.ErrUserNotFound
	case err != nil:
		return nil, err
	}

	s.log.Info("user profile updated", slog.Int64("user_id", userID))
	return updated, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return models.ErrUserExists
	case errors.Is(err, models.ErrNotFound):
		return nil
	default:
		return err
	}
}
