package download

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

type FileServiceMock struct {
	mock.Mock
}

func (m *FileServiceMock) Open(ctx context.Context, path string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, path)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.String(1), args.Error(2)
}

func newRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.URLFormat)
	r.Get("/files/{path}", New(sl.Discard(), svc).ServeHTTP)
	return r
}

func TestDownloadHandler_Success(t *testing.T) {
	svc := new(FileServiceMock)
	svc.On("Open", mock.Anything, "abc.png").
		Return(io.NopCloser(strings.NewReader("png-bytes")), "image/png", nil).Once()

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/abc.png", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rec.Body.String())
	svc.AssertExpectations(t)
}

func TestDownloadHandler_NotFound(t *testing.T) {
	svc := new(FileServiceMock)
	svc.On("Open", mock.Anything, "missing.jpg").Return(nil, "", models.ErrFileNotFound).Once()

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/missing.jpg", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "file not found", got["error"])
	svc.AssertExpectations(t)
}
