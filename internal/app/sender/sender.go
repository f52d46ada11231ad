// Package sender собирает notification-sender: потребителя очередей
// уведомлений о подписках и напоминаний о встречах.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/meetapp/internal/config"
	"github.com/magabrotheeeer/meetapp/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/meetapp/internal/services/sender"
)

// App потребитель уведомлений.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New подключается к RabbitMQ и объявляет очереди уведомлений.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderservice.NewSenderService(logger, transport),
		logger:        logger,
	}, nil
}

// Run запускает потребителей и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	handlers := map[string]func([]byte) error{
		rabbitmq.SubscriptionRoutingKey: a.senderService.SendSubscriptionNotification,
		rabbitmq.ReminderRoutingKey:     a.senderService.SendMeetupReminder,
	}

	for _, q := range rabbitmq.GetNotificationQueues() {
		handler, ok := handlers[q.RoutingKey]
		if !ok {
			a.logger.Warn("no handler for queue", slog.String("queue", q.QueueName))
			continue
		}
		err := rabbitmq.ConsumerMessage(ctx, a.ch, q.QueueName, a.logger, handler)
		if err != nil {
			a.logger.Error("failed to start consumer", slog.String("queue", q.QueueName), sl.Err(err))
			return err
		}
		a.logger.Info("consumer started", slog.String("queue", q.QueueName))
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}

	return nil
}
