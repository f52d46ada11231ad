package register

import (
	"bytes"
	"context"
	"encoding/json"
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

type UserServiceMock struct {
	mock.Mock
}

func (m *UserServiceMock) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	args := m.Called(ctx, email, name, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func doRequest(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	return rec, got
}

func TestRegisterHandler_Success(t *testing.T) {
	svc := new(UserServiceMock)
	svc.On("Register", mock.Anything, "ann@example.com", "Ann", "secret123").
		Return(&models.User{ID: 3, Email: "ann@example.com", Name: "Ann", PasswordHash: "hash"}, nil).Once()

	rec, got := doRequest(t, New(sl.Discard(), svc), `{"email":"ann@example.com","name":"Ann","password":"secret123"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", got["status"])
	data := got["data"].(map[string]any)
	assert.Equal(t, float64(3), data["id"])
	assert.Equal(t, "Ann", data["name"])
	assert.NotContains(t, data, "password_hash")
	svc.AssertExpectations(t)
}

func TestRegisterHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantCode   int
		wantError  string
	}{
		{
			name:      "invalid json",
			body:      `{"email":`,
			wantCode:  http.StatusBadRequest,
			wantError: "invalid request body",
		},
		{
			name:      "short password",
			body:      `{"email":"ann@example.com","name":"Ann","password":"123"}`,
			wantCode:  http.StatusUnprocessableEntity,
			wantError: "field password must be at least 6 characters",
		},
		{
			name:      "bad email",
			body:      `{"email":"ann","name":"Ann","password":"secret123"}`,
			wantCode:  http.StatusUnprocessableEntity,
			wantError: "field email must be a valid email",
		},
		{
			name:       "duplicate email",
			body:       `{"email":"ann@example.com","name":"Ann","password":"secret123"}`,
			serviceErr: models.ErrUserExists,
			wantCode:   http.StatusUnprocessableEntity,
			wantError:  "user already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(UserServiceMock)
			if tt.serviceErr != nil {
				svc.On("Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(nil, tt.serviceErr).Once()
			}

			rec, got := doRequest(t, New(sl.Discard(), svc), tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "Error", got["status"])
			assert.Equal(t, tt.wantError, got["error"])
			svc.AssertExpectations(t)
		})
	}
}
