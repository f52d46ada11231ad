// Package scheduler собирает планировщик напоминаний о встречах.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/meetapp/internal/config"
	"github.com/magabrotheeeer/meetapp/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	schedulerservice "github.com/magabrotheeeer/meetapp/internal/services/scheduler"
	"github.com/magabrotheeeer/meetapp/internal/storage/repository"
)

const (
	dbReadyAttempts = 10
	dbReadyDelay    = 3 * time.Second
)

// App планировщик напоминаний.
type App struct {
	db        *repository.Storage
	conn      *amqp.Connection
	ch        *amqp.Channel
	scheduler *schedulerservice.SchedulerService
	logger    *slog.Logger
}

// New подключается к PostgreSQL и RabbitMQ. Ждёт, пока API применит миграции.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = waitForDB(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, err
	}

	publisher := rabbitmq.NewPublisher(ch, rabbitmq.NotificationsExchange)
	return &App{
		db:   db,
		conn: conn,
		ch:   ch,
		scheduler: schedulerservice.NewSchedulerService(db, publisher,
			cfg.Scheduler.ReminderInterval, cfg.Scheduler.ReminderLead, logger),
		logger: logger,
	}, nil
}

// Run рассылает напоминания до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	a.scheduler.Run(ctx)
	a.logger.Info("scheduler shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return a.db.Close()
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	var err error
	for range dbReadyAttempts {
		if err = repository.CheckDatabaseReady(ctx, db); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dbReadyDelay):
		}
	}
	return fmt.Errorf("database not ready after retries: %w", err)
}
