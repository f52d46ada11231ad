package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/meetapp/internal/models"
)

// SubscribeWithinSlot подписывает пользователя на встречу, если у него нет
// другой подписки на встречу с той же датой.
//
// Проверка и вставка выполняются в одной транзакции. Она берёт разделяемую
// блокировку встречи (перенос даты ждёт её завершения), затем блокирует строку
// пользователя, поэтому параллельные запросы одного пользователя выполняются
// последовательно. Порядок блокировок тот же, что в UpdateMeetup.
// Конфликт возвращается как models.ErrTimeConflict.
func (s *Storage) SubscribeWithinSlot(ctx context.Context, userID, meetupID int64) (*models.Subscription, error) {
	const op = "storage.SubscribeWithinSlot"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var date time.Time
	if err = tx.QueryRowContext(ctx, `SELECT date FROM meetups WHERE id = $1 FOR SHARE`, meetupID).
		Scan(&date); err != nil {
		return nil, mapError(op, err)
	}

	var lockedID int64
	if err = tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).
		Scan(&lockedID); err != nil {
		return nil, mapError(op, err)
	}

	var conflict bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS (
			  SELECT 1 FROM subscriptions s
			  JOIN meetups m ON m.id = s.meetup_id
			  WHERE s.user_id = $1 AND m.date = $2
			)`, userID, date).Scan(&conflict)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if conflict {
		return nil, fmt.Errorf("%s: %w", op, models.ErrTimeConflict)
	}

	var sub models.Subscription
	err = tx.QueryRowContext(ctx, `INSERT INTO subscriptions (user_id, meetup_id)
			  VALUES ($1, $2)
			  RETURNING id, user_id, meetup_id, created_at, updated_at`, userID, meetupID).
		Scan(&sub.ID, &sub.UserID, &sub.MeetupID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		err = mapError(op, err)
		if errors.Is(err, models.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrTimeConflict)
		}
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// GetSubscription возвращает подписку по ID.
func (s *Storage) GetSubscription(ctx context.Context, id int64) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var sub models.Subscription
	err := s.DB.QueryRowContext(ctx, `SELECT id, user_id, meetup_id, created_at, updated_at
			  FROM subscriptions WHERE id = $1`, id).
		Scan(&sub.ID, &sub.UserID, &sub.MeetupID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, mapError(op, err)
	}
	return &sub, nil
}

// ListUpcomingSubscriptions возвращает подписки пользователя на встречи,
// дата которых строго позже now, по возрастанию даты встречи.
func (s *Storage) ListUpcomingSubscriptions(ctx context.Context, userID int64, now time.Time) ([]models.SubscriptionDetails, error) {
	const op = "storage.ListUpcomingSubscriptions"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT s.id, s.user_id, s.meetup_id, s.created_at, s.updated_at, ` + meetupDetailsColumns + `
			  FROM subscriptions s
			  JOIN meetups m ON m.id = s.meetup_id
			  ` + meetupDetailsJoins + `
			  WHERE s.user_id = $1 AND m.date > $2
			  ORDER BY m.date, s.id`
	rows, err := s.DB.QueryContext(ctx, query, userID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.SubscriptionDetails, 0)
	for rows.Next() {
		var sub models.Subscription
		d, err := scanMeetupDetails(rows, &sub.ID, &sub.UserID, &sub.MeetupID, &sub.CreatedAt, &sub.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, models.SubscriptionDetails{Subscription: sub, Meetup: *d})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteSubscription удаляет подписку по ID.
func (s *Storage) DeleteSubscription(ctx context.Context, id int64) error {
	const op = "storage.DeleteSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return mapError(op, err)
	}
	return expectOne(op, res)
}

// ListReminders возвращает подписки на встречи с датой в интервале [from, to)
// вместе с контактами подписчиков.
func (s *Storage) ListReminders(ctx context.Context, from, to time.Time) ([]models.MeetupReminder, error) {
	const op = "storage.ListReminders"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT s.id, u.name, u.email, m.id, m.title, m.location, m.date
			  FROM subscriptions s
			  JOIN users u ON u.id = s.user_id
			  JOIN meetups m ON m.id = s.meetup_id
			  WHERE m.date >= $1 AND m.date < $2
			  ORDER BY m.date, s.id`
	rows, err := s.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.MeetupReminder, 0)
	for rows.Next() {
		var r models.MeetupReminder
		if err = rows.Scan(&r.SubscriptionID, &r.SubscriberName, &r.SubscriberEmail,
			&r.MeetupID, &r.MeetupTitle, &r.MeetupLocation, &r.MeetupDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
