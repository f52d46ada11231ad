package list

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

type MeetupServiceMock struct {
	mock.Mock
}

func (m *MeetupServiceMock) List(ctx context.Context, day *time.Time, page, limit int) ([]models.MeetupDetails, error) {
	args := m.Called(ctx, day, page, limit)
	list, _ := args.Get(0).([]models.MeetupDetails)
	return list, args.Error(1)
}

func serve(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	return got
}

func TestListHandler_NoFilter(t *testing.T) {
	svc := new(MeetupServiceMock)
	svc.On("List", mock.Anything, (*time.Time)(nil), 0, 0).Return([]models.MeetupDetails{
		{Meetup: models.Meetup{ID: 1}},
		{Meetup: models.Meetup{ID: 2}},
	}, nil).Once()

	rec := serve(New(sl.Discard(), svc, time.UTC), "/meetups")

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].([]any)
	assert.Len(t, data, 2)
	svc.AssertExpectations(t)
}

func TestListHandler_DayAndPaging(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	svc := new(MeetupServiceMock)
	svc.On("List", mock.Anything, mock.MatchedBy(func(day *time.Time) bool {
		return day != nil && day.Equal(time.Date(2030, 5, 20, 0, 0, 0, 0, loc))
	}), 2, 5).Return([]models.MeetupDetails{}, nil).Once()

	rec := serve(New(sl.Discard(), svc, loc), "/meetups?date=2030-05-20&page=2&limit=5")

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestListHandler_BadParams(t *testing.T) {
	tests := []struct {
		target    string
		wantError string
	}{
		{"/meetups?date=20-05-2030", "invalid date"},
		{"/meetups?page=abc", "invalid page"},
		{"/meetups?limit=-1", "invalid limit"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			svc := new(MeetupServiceMock)
			rec := serve(New(sl.Discard(), svc, time.UTC), tt.target)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantError, decode(t, rec)["error"])
			svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestListHandler_ServiceError(t *testing.T) {
	svc := new(MeetupServiceMock)
	svc.On("List", mock.Anything, mock.Anything, 0, 0).Return(nil, errors.New("db down")).Once()

	rec := serve(New(sl.Discard(), svc, time.UTC), "/meetups")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decode(t, rec)["error"])
}
