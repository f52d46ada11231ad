package read

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

type MeetupServiceMock struct {
	mock.Mock
}

func (m *MeetupServiceMock) Get(ctx context.Context, id int64) (*models.MeetupDetails, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*models.MeetupDetails)
	return d, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		mockID    int64
		mockResp  *models.MeetupDetails
		mockErr   error
		wantCode  int
		wantError string
	}{
		{
			name:     "found",
			path:     "/meetups/3",
			mockID:   3,
			mockResp: &models.MeetupDetails{Meetup: models.Meetup{ID: 3, Title: "Go"}},
			wantCode: http.StatusOK,
		},
		{
			name:      "not found",
			path:      "/meetups/4",
			mockID:    4,
			mockErr:   models.ErrMeetupNotFound,
			wantCode:  http.StatusNotFound,
			wantError: "meetup not found",
		},
		{
			name:      "bad id",
			path:      "/meetups/abc",
			wantCode:  http.StatusBadRequest,
			wantError: "invalid id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MeetupServiceMock)
			if tt.mockID != 0 {
				svc.On("Get", mock.Anything, tt.mockID).Return(tt.mockResp, tt.mockErr).Once()
			}

			r := chi.NewRouter()
			r.Get("/meetups/{id}", New(sl.Discard(), svc).ServeHTTP)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "Go", got["data"].(map[string]any)["title"])
			}
			svc.AssertExpectations(t)
		})
	}
}
