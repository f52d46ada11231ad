package login

import (
	"context"

	"github.com/magabrotheeeer/meetapp/internal/models"
)

// Service описывает бизнес-логику аутентификации.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}
