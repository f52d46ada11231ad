package create

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/meetapp/internal/http/middlewarectx"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

type MeetupServiceMock struct {
	mock.Mock
}

func (m *MeetupServiceMock) Create(ctx context.Context, organizerID int64, in models.MeetupInput) (*models.MeetupDetails, error) {
	args := m.Called(ctx, organizerID, in)
	d, _ := args.Get(0).(*models.MeetupDetails)
	return d, args.Error(1)
}

func newRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/meetups", bytes.NewBufferString(body))
	ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
	ctx = context.WithValue(ctx, middlewarectx.UserID, int64(1))
	return req.WithContext(ctx)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	return got
}

func TestCreateHandler_Success(t *testing.T) {
	date := time.Date(2030, 1, 2, 18, 0, 0, 0, time.UTC)
	fileID := int64(4)

	svc := new(MeetupServiceMock)
	svc.On("Create", mock.Anything, int64(1), mock.MatchedBy(func(in models.MeetupInput) bool {
		return in.Title == "Go meetup" && in.Date.Equal(date) && in.FileID != nil && *in.FileID == fileID
	})).Return(&models.MeetupDetails{
		Meetup:    models.Meetup{ID: 10, Title: "Go meetup", Date: date, UserID: 1, FileID: &fileID},
		Organizer: models.Organizer{ID: 1, Name: "Ann"},
		Banner:    &models.Banner{ID: fileID, Path: "a.png"},
	}, nil).Once()

	rec := httptest.NewRecorder()
	New(sl.Discard(), svc).ServeHTTP(rec, newRequest(
		`{"title":"Go meetup","description":"talks","location":"Moscow","date":"2030-01-02T18:00:00Z","file_id":4}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, float64(10), data["id"])
	assert.Equal(t, false, data["past"])
	assert.Equal(t, "Ann", data["user"].(map[string]any)["name"])
	assert.Equal(t, "a.png", data["banner"].(map[string]any)["path"])
	svc.AssertExpectations(t)
}

func TestCreateHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantCode   int
		wantError  string
	}{
		{
			name:      "invalid date format",
			body:      `{"title":"a","description":"b","location":"c","date":"tomorrow","file_id":1}`,
			wantCode:  http.StatusBadRequest,
			wantError: "invalid request body",
		},
		{
			name:      "missing banner",
			body:      `{"title":"a","description":"b","location":"c","date":"2030-01-02T18:00:00Z"}`,
			wantCode:  http.StatusUnprocessableEntity,
			wantError: "field file_id is a required field",
		},
		{
			name:      "missing title",
			body:      `{"description":"b","location":"c","date":"2030-01-02T18:00:00Z","file_id":1}`,
			wantCode:  http.StatusUnprocessableEntity,
			wantError: "field title is a required field",
		},
		{
			name:       "past date",
			body:       `{"title":"a","description":"b","location":"c","date":"2001-01-02T18:00:00Z","file_id":1}`,
			serviceErr: models.ErrPastDate,
			wantCode:   http.StatusBadRequest,
			wantError:  "past dates are not permitted",
		},
		{
			name:       "unknown banner",
			body:       `{"title":"a","description":"b","location":"c","date":"2030-01-02T18:00:00Z","file_id":99}`,
			serviceErr: models.ErrBannerNotFound,
			wantCode:   http.StatusBadRequest,
			wantError:  "banner does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MeetupServiceMock)
			if tt.serviceErr != nil {
				svc.On("Create", mock.Anything, int64(1), mock.Anything).Return(nil, tt.serviceErr).Once()
			}

			rec := httptest.NewRecorder()
			New(sl.Discard(), svc).ServeHTTP(rec, newRequest(tt.body))

			assert.Equal(t, tt.wantCode, rec.Code)
			got := decode(t, rec)
			assert.Equal(t, "Error", got["status"])
			assert.Equal(t, tt.wantError, got["error"])
			svc.AssertExpectations(t)
		})
	}
}
