package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Error(2)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	user := &models.User{ID: 7, Email: "john@example.com", Name: "John", PasswordHash: "hash"}

	tests := []struct {
		name           string
		requestBody    any
		mockUser       *models.User
		mockToken      string
		mockErr        error
		callService    bool
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:           "valid login",
			requestBody:    Request{Email: "john@example.com", Password: "secret123"},
			mockUser:       user,
			mockToken:      "tok",
			callService:    true,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - missing password",
			requestBody:    Request{Email: "john@example.com"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field password is a required field",
			wantStatus:     "Error",
		},
		{
			name:           "unknown email",
			requestBody:    Request{Email: "nobody@example.com", Password: "secret123"},
			mockErr:        models.ErrUserNotFound,
			callService:    true,
			wantStatusCode: http.StatusNotFound,
			wantError:      "user not found",
			wantStatus:     "Error",
		},
		{
			name:           "wrong password",
			requestBody:    Request{Email: "john@example.com", Password: "wrong-pass"},
			mockErr:        models.ErrPasswordMismatch,
			callService:    true,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "password does not match",
			wantStatus:     "Error",
		},
		{
			name:           "storage error",
			requestBody:    Request{Email: "john@example.com", Password: "secret123"},
			mockErr:        errors.New("db down"),
			callService:    true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal error",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			handler := New(sl.Discard(), authMock)

			if tt.callService {
				req := tt.requestBody.(Request)
				authMock.On("Login", mock.Anything, req.Email, req.Password).
					Return(tt.mockUser, tt.mockToken, tt.mockErr).Once()
			}

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(v)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/auth", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
				assert.Nil(t, got["data"])
			} else {
				data, ok := got["data"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, tt.mockToken, data["token"])
				u, ok := data["user"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, float64(user.ID), u["id"])
				assert.Equal(t, user.Email, u["email"])
				assert.NotContains(t, u, "PasswordHash")
			}

			authMock.AssertExpectations(t)
		})
	}
}
