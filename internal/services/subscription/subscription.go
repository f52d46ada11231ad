// Package services содержит бизнес-логику подписок на встречи: правило одной
// подписки на временной слот, список предстоящих подписок и отмену.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/meetapp/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// GetMeetupDetails возвращает встречу вместе с организатором.
	GetMeetupDetails(ctx context.Context, id int64) (*models.MeetupDetails, error)
	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, id int64) (*models.User, error)
	// SubscribeWithinSlot создаёт подписку, если слот встречи у пользователя свободен.
	SubscribeWithinSlot(ctx context.Context, userID, meetupID int64) (*models.Subscription, error)
	// GetSubscription возвращает подписку по ID.
	GetSubscription(ctx context.Context, id int64) (*models.Subscription, error)
	// GetMeetup возвращает встречу без связанных сущностей.
	GetMeetup(ctx context.Context, id int64) (*models.Meetup, error)
	// ListUpcomingSubscriptions возвращает подписки на встречи после now.
	ListUpcomingSubscriptions(ctx context.Context, userID int64, now time.Time) ([]models.SubscriptionDetails, error)
	// DeleteSubscription удаляет подписку по ID.
	DeleteSubscription(ctx context.Context, id int64) error
}

// Publisher отправляет сообщения в брокер.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// SubscriptionService реализует бизнес-логику подписок.
type SubscriptionService struct {
	repo      SubscriptionRepository
	publisher Publisher
	publicURL string
	now       func() time.Time
	log       *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
// publisher может быть nil, тогда уведомления не отправляются.
func NewSubscriptionService(repo SubscriptionRepository, publisher Publisher, publicURL string, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:      repo,
		publisher: publisher,
		publicURL: publicURL,
		now:       time.Now,
		log:       log,
	}
}

// SetClock подменяет источник текущего времени.
func (s *SubscriptionService) SetClock(now func() time.Time) {
	s.now = now
}

// Subscribe подписывает пользователя subscriberID на встречу meetupID и
// уведомляет организатора.
func (s *SubscriptionService) Subscribe(ctx context.Context, meetupID, subscriberID int64) (*models.Subscription, error) {
	meetup, err := s.repo.GetMeetupDetails(ctx, meetupID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrMeetupNotFound
	}
	if err != nil {
		return nil, err
	}
	if meetup.IsPast(s.now()) {
		return nil, models.ErrMeetupPast
	}
	if meetup.UserID == subscriberID {
		return nil, models.ErrOwnMeetup
	}

	sub, err := s.repo.SubscribeWithinSlot(ctx, subscriberID, meetupID)
	switch {
	case errors.Is(err, models.ErrTimeConflict):
		return nil, models.ErrTimeConflict
	case errors.Is(err, models.ErrNotFound):
		return nil, models.ErrUserNotFound
	case err != nil:
		return nil, err
	}

	s.log.Info("subscription created",
		slog.Int64("subscription_id", sub.ID),
		slog.Int64("meetup_id", meetupID),
		slog.Int64("user_id", subscriberID),
	)
	s.notify(ctx, meetup, subscriberID)
	return sub, nil
}

// ListUpcoming возвращает подписки пользователя на ещё не начавшиеся встречи
// по возрастанию даты.
func (s *SubscriptionService) ListUpcoming(ctx context.Context, subscriberID int64) ([]models.SubscriptionDetails, error) {
	now := s.now()
	list, err := s.repo.ListUpcomingSubscriptions(ctx, subscriberID, now)
	if err != nil {
		return nil, err
	}
	for i := range list {
		m := &list[i].Meetup
		m.Past = m.IsPast(now)
		if m.Banner != nil {
			m.Banner.URL = models.FileURL(s.publicURL, m.Banner.Path)
		}
	}
	return list, nil
}

// Cancel удаляет подписку. Отменить можно только свою подписку на
// ещё не состоявшуюся встречу.
func (s *SubscriptionService) Cancel(ctx context.Context, subscriptionID, subscriberID int64) error {
	sub, err := s.repo.GetSubscription(ctx, subscriptionID)
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrSubscriptionNotFound
	}
	if err != nil {
		return err
	}
	if sub.UserID != subscriberID {
		return models.ErrNotSubscriber
	}

	meetup, err := s.repo.GetMeetup(ctx, sub.MeetupID)
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrMeetupNotFound
	}
	if err != nil {
		return err
	}
	if meetup.IsPast(s.now()) {
		return models.ErrMeetupPast
	}

	if err = s.repo.DeleteSubscription(ctx, subscriptionID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrSubscriptionNotFound
		}
		return err
	}

	s.log.Info("subscription cancelled", slog.Int64("subscription_id", subscriptionID))
	return nil
}

// notify публикует уведомление организатору. Ошибки только логируются.
func (s *SubscriptionService) notify(ctx context.Context, meetup *models.MeetupDetails, subscriberID int64) {
	if s.publisher == nil {
		return
	}

	subscriber, err := s.repo.GetUser(ctx, subscriberID)
	if err != nil {
		s.log.Warn("failed to load subscriber for notification", slog.Int64("user_id", subscriberID), sl.Err(err))
		return
	}

	msg := models.SubscriptionNotification{
		OrganizerName:   meetup.Organizer.Name,
		OrganizerEmail:  meetup.Organizer.Email,
		SubscriberName:  subscriber.Name,
		SubscriberEmail: subscriber.Email,
		MeetupID:        meetup.ID,
		MeetupTitle:     meetup.Title,
		MeetupDate:      meetup.Date,
	}
	if err = s.publisher.Publish(rabbitmq.SubscriptionRoutingKey, msg); err != nil {
		s.log.Warn("failed to publish subscription notification", slog.Int64("meetup_id", meetup.ID), sl.Err(err))
	}
}
