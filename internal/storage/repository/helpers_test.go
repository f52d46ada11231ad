package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/meetapp/internal/migrations"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

// TestDataFactory создаёт тестовые записи напрямую через SQL.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создаёт фабрику тестовых данных.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создаёт пользователя и возвращает его ID.
func (f *TestDataFactory) CreateUser(t *testing.T, name, email string) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO users (email, name, password_hash)
		VALUES ($1, $2, 'hash') RETURNING id`, email, name).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateFile создаёт запись файла и возвращает её ID.
func (f *TestDataFactory) CreateFile(t *testing.T, name, path string) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO files (name, path) VALUES ($1, $2) RETURNING id`,
		name, path).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateMeetup создаёт встречу организатора userID на дату date.
func (f *TestDataFactory) CreateMeetup(t *testing.T, userID int64, title string, date time.Time) int64 {
	id, err := f.storage.CreateMeetup(context.Background(), models.Meetup{
		Title:       title,
		Description: "description",
		Location:    "location",
		Date:        date,
		UserID:      userID,
	})
	require.NoError(t, err)
	return id
}

// CreateSubscription создаёт подписку в обход проверки слота.
func (f *TestDataFactory) CreateSubscription(t *testing.T, userID, meetupID int64) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO subscriptions (user_id, meetup_id) VALUES ($1, $2) RETURNING id`,
		userID, meetupID).Scan(&id)
	require.NoError(t, err)
	return id
}

// countRows возвращает число строк запроса вида SELECT COUNT(*).
func countRows(t *testing.T, storage *Storage, query string, args ...any) int {
	var n int
	require.NoError(t, storage.DB.QueryRow(query, args...).Scan(&n))
	return n
}

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err, "failed to create storage")

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	cleanup := func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}
