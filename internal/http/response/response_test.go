package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/meetapp/internal/models"
)

func TestValidationError(t *testing.T) {
	type request struct {
		Email           string `json:"email" validate:"required,email"`
		Password        string `json:"password" validate:"omitempty,min=6"`
		ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
	}

	err := NewValidator().Struct(request{Email: "bad", Password: "123", ConfirmPassword: "x"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	resp := ValidationError(verrs)
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, []string{
		"field email must be a valid email",
		"field password must be at least 6 characters",
		"field confirmPassword must match Password",
	}, resp.Errors)
	assert.Contains(t, resp.Error, "field email must be a valid email, ")
}

func TestFromError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{models.ErrMeetupNotFound, http.StatusNotFound, "meetup not found"},
		{fmt.Errorf("wrapped: %w", models.ErrTimeConflict), http.StatusUnauthorized, models.ErrTimeConflict.Error()},
		{models.ErrUserExists, http.StatusUnprocessableEntity, "user already exists"},
		{models.ErrPastDate, http.StatusBadRequest, "past dates are not permitted"},
		{models.ErrNotOrganizer, http.StatusBadRequest, models.ErrNotOrganizer.Error()},
		{fmt.Errorf("storage.UpdateMeetup: %w", models.ErrSubscriberConflict), http.StatusBadRequest, models.ErrSubscriberConflict.Error()},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.wantMsg, func(t *testing.T) {
			status, resp := FromError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, resp.Error)
			assert.Equal(t, StatusError, resp.Status)
		})
	}
}
