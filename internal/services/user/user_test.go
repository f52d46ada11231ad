package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/meetapp/internal/lib/password"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/models"
	services "github.com/magabrotheeeer/meetapp/internal/services/user"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUser(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func ptr[T any](v T) *T { return &v }

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name: "successful registration",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "a@example.com").Return(nil, models.ErrNotFound).Once()
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return u.Email == "a@example.com" && u.Name == "Alice" &&
						password.CompareHash(u.PasswordHash, "secret1") == nil
				})).Return(&models.User{ID: 1, Email: "a@example.com", Name: "Alice"}, nil).Once()
			},
		},
		{
			name: "email already taken",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "a@example.com").Return(&models.User{ID: 2}, nil).Once()
			},
			wantErr: models.ErrUserExists,
		},
		{
			name: "unique violation on insert",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "a@example.com").Return(nil, models.ErrNotFound).Once()
				r.On("CreateUser", mock.Anything, mock.Anything).Return(nil, models.ErrAlreadyExists).Once()
			},
			wantErr: models.ErrUserExists,
		},
		{
			name: "repository error",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "a@example.com").Return(nil, errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)
			svc := services.NewUserService(repo, sl.Discard())

			got, err := svc.Register(context.Background(), "a@example.com", "Alice", "secret1")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(1), got.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_Update(t *testing.T) {
	hash, err := password.GetHash("oldpass")
	require.NoError(t, err)
	current := &models.User{ID: 1, Email: "a@example.com", Name: "Alice", PasswordHash: hash}

	tests := []struct {
		name       string
		upd        models.ProfileUpdate
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name: "change name",
			upd:  models.ProfileUpdate{Name: ptr("Alice B")},
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUser", mock.Anything, int64(1)).Return(current, nil).Once()
				r.On("UpdateUser", mock.Anything, int64(1), models.UserUpdate{Name: ptr("Alice B")}).
					Return(&models.User{ID: 1, Name: "Alice B"}, nil).Once()
			},
		},
		{
			name: "change password with correct old password",
			upd:  models.ProfileUpdate{Password: ptr("newpass"), OldPassword: ptr("oldpass")},
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUser", mock.Anything, int64(1)).Return(current, nil).Once()
				r.On("UpdateUser", mock.Anything, int64(1), mock.MatchedBy(func(u models.UserUpdate) bool {
					return u.PasswordHash != nil && password.CompareHash(*u.PasswordHash, "newpass") == nil
				})).Return(current, nil).Once()
			},
		},
		{
			name: "wrong old password",
			upd:  models.ProfileUpdate{Password: ptr("newpass"), OldPassword: ptr("bad")},
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUser", mock.Anything, int64(1)).Return(current, nil).Once()
			},
			wantErr: models.ErrPasswordMismatch,
		},
		{
			name: "email owned by another user",
			upd:  models.ProfileUpdate{Email: ptr("b@example.com")},
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUser", mock.Anything, int64(1)).Return(current, nil).Once()
				r.On("GetUserByEmail", mock.Anything, "b@example.com").Return(&models.User{ID: 2}, nil).Once()
			},
			wantErr: models.ErrUserExists,
		},
		{
			name: "same email is not checked",
			upd:  models.ProfileUpdate{Email: ptr("a@example.com")},
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUser", mock.Anything, int64(1)).Return(current, nil).Once()
				r.On("UpdateUser", mock.Anything, int64(1), mock.Anything).Return(current, nil).Once()
			},
		},
		{
			name: "user not found",
			upd:  models.ProfileUpdate{Name: ptr("x")},
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUser", mock.Anything, int64(1)).Return(nil, models.ErrNotFound).Once()
			},
			wantErr: models.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)
			svc := services.NewUserService(repo, sl.Discard())

			got, err := svc.Update(context.Background(), 1, tt.upd)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, got)
			}
			repo.AssertExpectations(t)
		})
	}
}
