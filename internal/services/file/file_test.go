package services_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/meetapp/internal/filestore"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/models"
	services "github.com/magabrotheeeer/meetapp/internal/services/file"
)

// минимальный PNG-заголовок
var pngData = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 64)...)

type FileRepoMock struct {
	mock.Mock
}

func (m *FileRepoMock) CreateFile(ctx context.Context, file models.File) (*models.File, error) {
	args := m.Called(ctx, file)
	if fn, ok := args.Get(0).(func(context.Context, models.File) *models.File); ok {
		return fn(ctx, file), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.File), args.Error(1)
}

func (m *FileRepoMock) GetFileByPath(ctx context.Context, path string) (*models.File, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.File), args.Error(1)
}

func newService(t *testing.T, repo *FileRepoMock) (*services.FileService, filestore.Store) {
	store, err := filestore.NewLocal(t.TempDir())
	require.NoError(t, err)
	return services.NewFileService(repo, store, "http://localhost:8080", sl.Discard()), store
}

func TestFileService_Upload(t *testing.T) {
	repo := new(FileRepoMock)
	svc, store := newService(t, repo)

	var savedKey string
	repo.On("CreateFile", mock.Anything, mock.MatchedBy(func(f models.File) bool {
		savedKey = f.Path
		return f.Name == "banner.PNG" && strings.HasSuffix(f.Path, ".png")
	})).Return(func(_ context.Context, f models.File) *models.File {
		return &models.File{ID: 3, Name: f.Name, Path: f.Path}
	}, nil).Once()

	got, err := svc.Upload(context.Background(), "banner.PNG", bytes.NewReader(pngData))
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
	assert.Equal(t, "http://localhost:8080/api/v1/files/"+savedKey, got.URL)

	rc, err := store.Open(context.Background(), savedKey)
	require.NoError(t, err)
	defer rc.Close()
	stored, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, pngData, stored)
	repo.AssertExpectations(t)
}

func TestFileService_Upload_ExtensionFromContent(t *testing.T) {
	tests := []struct {
		name     string
		filename string
	}{
		{name: "без расширения", filename: "banner"},
		{name: "точка в конце", filename: "banner."},
		{name: "недопустимые символы", filename: "banner.p%g"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(FileRepoMock)
			svc, _ := newService(t, repo)

			repo.On("CreateFile", mock.Anything, mock.MatchedBy(func(f models.File) bool {
				return strings.HasSuffix(f.Path, ".png") && strings.Count(f.Path, ".") == 1
			})).Return(func(_ context.Context, f models.File) *models.File {
				return &models.File{ID: 4, Name: f.Name, Path: f.Path}
			}, nil).Once()

			_, err := svc.Upload(context.Background(), tt.filename, bytes.NewReader(pngData))
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestFileService_Upload_RejectsNonImage(t *testing.T) {
	repo := new(FileRepoMock)
	svc, _ := newService(t, repo)

	_, err := svc.Upload(context.Background(), "notes.txt", strings.NewReader("just some text"))
	require.ErrorIs(t, err, models.ErrUnsupportedContent)
	repo.AssertNotCalled(t, "CreateFile", mock.Anything, mock.Anything)
}

func TestFileService_Upload_RepositoryError(t *testing.T) {
	repo := new(FileRepoMock)
	svc, store := newService(t, repo)

	var savedKey string
	repo.On("CreateFile", mock.Anything, mock.MatchedBy(func(f models.File) bool {
		savedKey = f.Path
		return true
	})).Return(nil, errors.New("db error")).Once()

	_, err := svc.Upload(context.Background(), "a.png", bytes.NewReader(pngData))
	require.Error(t, err)

	_, err = store.Open(context.Background(), savedKey)
	assert.ErrorIs(t, err, filestore.ErrNotExist, "orphaned file must be removed")
}

func TestFileService_Open(t *testing.T) {
	repo := new(FileRepoMock)
	svc, store := newService(t, repo)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "k.png", bytes.NewReader(pngData), "image/png"))
	repo.On("GetFileByPath", mock.Anything, "k.png").Return(&models.File{ID: 1, Path: "k.png"}, nil).Once()
	repo.On("GetFileByPath", mock.Anything, "missing.png").Return(nil, models.ErrNotFound).Once()

	rc, contentType, err := svc.Open(ctx, "k.png")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, pngData, data)

	_, _, err = svc.Open(ctx, "missing.png")
	assert.ErrorIs(t, err, models.ErrFileNotFound)
}
