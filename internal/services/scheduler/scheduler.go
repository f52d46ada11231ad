// Package services рассылает подписчикам напоминания о скорых встречах.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/meetapp/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

// ReminderRepository выбирает подписки на встречи в заданном интервале.
type ReminderRepository interface {
	ListReminders(ctx context.Context, from, to time.Time) ([]models.MeetupReminder, error)
}

// Publisher отправляет сообщения в брокер.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// SchedulerService раз в interval публикует напоминания о встречах,
// до которых осталось lead. Каждое окно начинается там, где закончилось
// предыдущее, поэтому подписка получает ровно одно напоминание даже при
// запоздавшем тике.
type SchedulerService struct {
	repo      ReminderRepository
	publisher Publisher
	interval  time.Duration
	lead      time.Duration
	now       func() time.Time
	next      time.Time
	log       *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo ReminderRepository, publisher Publisher, interval, lead time.Duration, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:      repo,
		publisher: publisher,
		interval:  interval,
		lead:      lead,
		now:       time.Now,
		log:       log,
	}
}

// SetClock подменяет источник текущего времени.
func (s *SchedulerService) SetClock(now func() time.Time) {
	s.now = now
}

// Run выполняет рассылку сразу и затем по таймеру до отмены ctx.
func (s *SchedulerService) Run(ctx context.Context) {
	s.SendReminders(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SendReminders(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// SendReminders публикует напоминания о встречах в окне [from, now+lead+interval),
// где from это конец окна прошлого запуска (now+lead при первом запуске).
// При ошибке чтения окно не сдвигается. Возвращает число опубликованных сообщений.
func (s *SchedulerService) SendReminders(ctx context.Context) int {
	to := s.now().Add(s.lead + s.interval)
	from := s.next
	if from.IsZero() {
		from = to.Add(-s.interval)
	}
	if !from.Before(to) {
		return 0
	}

	s.log.Info("looking for meetups to remind about", slog.Time("from", from), slog.Time("to", to))
	reminders, err := s.repo.ListReminders(ctx, from, to)
	if err != nil {
		s.log.Error("failed to find reminders", sl.Err(err))
		return 0
	}
	s.next = to
	if len(reminders) == 0 {
		s.log.Info("no upcoming meetups found")
		return 0
	}

	s.log.Info("found upcoming meetups", slog.Int("count", len(reminders)))
	published := 0
	for _, r := range reminders {
		if err = s.publisher.Publish(rabbitmq.ReminderRoutingKey, r); err != nil {
			s.log.Error("failed to publish reminder", slog.Int64("subscription_id", r.SubscriptionID), sl.Err(err))
			continue
		}
		published++
	}
	return published
}
