package models

import "time"

// Subscription связь подписчика (UserID) со встречей.
type Subscription struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	MeetupID  int64     `json:"meetup_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubscriptionDetails подписка вместе с данными встречи.
type SubscriptionDetails struct {
	Subscription
	Meetup MeetupDetails `json:"meetup"`
}

// SubscriptionNotification сообщение для организатора о новой подписке.
// Публикуется в RabbitMQ и читается notification-sender.
type SubscriptionNotification struct {
	OrganizerName   string    `json:"organizer_name"`
	OrganizerEmail  string    `json:"organizer_email"`
	SubscriberName  string    `json:"subscriber_name"`
	SubscriberEmail string    `json:"subscriber_email"`
	MeetupID        int64     `json:"meetup_id"`
	MeetupTitle     string    `json:"meetup_title"`
	MeetupDate      time.Time `json:"meetup_date"`
}

// MeetupReminder напоминание подписчику о скорой встрече.
// Публикуется планировщиком и читается notification-sender.
type MeetupReminder struct {
	SubscriptionID  int64     `json:"subscription_id"`
	SubscriberName  string    `json:"subscriber_name"`
	SubscriberEmail string    `json:"subscriber_email"`
	MeetupID        int64     `json:"meetup_id"`
	MeetupTitle     string    `json:"meetup_title"`
	MeetupLocation  string    `json:"meetup_location"`
	MeetupDate      time.Time `json:"meetup_date"`
}
