package update

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
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

func (m *MeetupServiceMock) Update(ctx context.Context, id, organizerID int64, upd models.MeetupUpdate) (*models.MeetupDetails, error) {
	args := m.Called(ctx, id, organizerID, upd)
	d, _ := args.Get(0).(*models.MeetupDetails)
	return d, args.Error(1)
}

func serve(svc Service, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), middlewarectx.UserID, int64(1))
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Put("/meetups/{id}", New(sl.Discard(), svc).ServeHTTP)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, path, bytes.NewBufferString(body)))

	var got map[string]any
	_ = json.NewDecoder(rec.Body).Decode(&got)
	return rec, got
}

func TestUpdateHandler_PartialUpdate(t *testing.T) {
	svc := new(MeetupServiceMock)
	svc.On("Update", mock.Anything, int64(7), int64(1), mock.MatchedBy(func(u models.MeetupUpdate) bool {
		return u.Title != nil && *u.Title == "New title" &&
			u.Description == nil && u.Location == nil && u.Date == nil && u.FileID == nil
	})).Return(&models.MeetupDetails{Meetup: models.Meetup{ID: 7, Title: "New title"}}, nil).Once()

	rec, got := serve(svc, "/meetups/7", `{"title":"New title"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got["data"])
	assert.Equal(t, "New title", got["data"].(map[string]any)["title"])
	svc.AssertExpectations(t)
}

func TestUpdateHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		serviceErr error
		wantCode   int
		wantError  string
	}{
		{"bad id", "/meetups/x", `{}`, nil, http.StatusBadRequest, "invalid id"},
		{"bad json", "/meetups/7", `{`, nil, http.StatusBadRequest, "invalid request body"},
		{"empty title", "/meetups/7", `{"title":""}`, nil, http.StatusUnprocessableEntity, "field title must be at least 1 characters"},
		{"not organizer", "/meetups/7", `{"title":"x"}`, models.ErrNotOrganizer, http.StatusBadRequest, models.ErrNotOrganizer.Error()},
		{"past meetup", "/meetups/7", `{"title":"x"}`, models.ErrMeetupPast, http.StatusBadRequest, models.ErrMeetupPast.Error()},
		{"missing", "/meetups/7", `{"title":"x"}`, models.ErrMeetupNotFound, http.StatusNotFound, "meetup not found"},
		{"past new date", "/meetups/7", `{"date":"2001-01-01T10:00:00Z"}`, models.ErrPastDate, http.StatusBadRequest, "past dates are not permitted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MeetupServiceMock)
			if tt.serviceErr != nil {
				svc.On("Update", mock.Anything, int64(7), int64(1), mock.Anything).Return(nil, tt.serviceErr).Once()
			}

			rec, got := serve(svc, tt.path, tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantError, got["error"])
			svc.AssertExpectations(t)
		})
	}
}
