// Package services отправляет почтовые уведомления организаторам и подписчикам встреч.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/lib/smtp"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

const dateLayout = "02.01.2006 15:04"

// SenderService превращает события из очереди в письма.
type SenderService struct {
	mailer smtp.Mailer
	log    *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, mailer smtp.Mailer) *SenderService {
	return &SenderService{
		mailer: mailer,
		log:    log,
	}
}

// SendSubscriptionNotification разбирает models.SubscriptionNotification из body
// и пишет организатору о новом участнике.
func (s *SenderService) SendSubscriptionNotification(body []byte) error {
	var message models.SubscriptionNotification
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if message.OrganizerEmail == "" {
		return fmt.Errorf("notification for meetup %d has no organizer email", message.MeetupID)
	}

	return s.send(smtp.Message{
		To:      []string{message.OrganizerEmail},
		Subject: "Новая подписка на встречу " + message.MeetupTitle,
		Body: fmt.Sprintf("Здравствуйте, %s!\r\n\r\n%s (%s) записался на вашу встречу «%s», которая пройдёт %s.",
			message.OrganizerName, message.SubscriberName, message.SubscriberEmail,
			message.MeetupTitle, message.MeetupDate.Format(dateLayout)),
	})
}

// SendMeetupReminder разбирает models.MeetupReminder из body
// и напоминает подписчику о встрече.
func (s *SenderService) SendMeetupReminder(body []byte) error {
	var message models.MeetupReminder
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if message.SubscriberEmail == "" {
		return fmt.Errorf("reminder for subscription %d has no subscriber email", message.SubscriptionID)
	}

	return s.send(smtp.Message{
		To:      []string{message.SubscriberEmail},
		Subject: "Напоминание о встрече " + message.MeetupTitle,
		Body: fmt.Sprintf("Здравствуйте, %s!\r\n\r\nНапоминаем, что встреча «%s» пройдёт %s по адресу: %s.",
			message.SubscriberName, message.MeetupTitle, message.MeetupDate.Format(dateLayout), message.MeetupLocation),
	})
}

func (s *SenderService) send(msg smtp.Message) error {
	if err := s.mailer.Send(msg); err != nil {
		s.log.Error("failed to send email", slog.Any("to", msg.To), sl.Err(err))
		return err
	}
	s.log.Info("email sent successfully", slog.Any("to", msg.To))
	return nil
}
