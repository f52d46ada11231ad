package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/meetapp/internal/models"
)

const (
	meetupDetailsColumns = `m.id, m.title, m.description, m.location, m.date, m.user_id, m.file_id,
			      m.created_at, m.updated_at,
			      u.id, u.name, u.email,
			      f.id, f.name, f.path`
	meetupDetailsJoins = `JOIN users u ON u.id = m.user_id
			  LEFT JOIN files f ON f.id = m.file_id`
	meetupDetailsSelect = `SELECT ` + meetupDetailsColumns + `
			  FROM meetups m
			  ` + meetupDetailsJoins
)

func scanMeetupDetails(row rowScanner, extra ...any) (*models.MeetupDetails, error) {
	var (
		d        models.MeetupDetails
		fileID   sql.NullInt64
		bannerID sql.NullInt64
		name     sql.NullString
		path     sql.NullString
	)
	dest := append(extra,
		&d.ID, &d.Title, &d.Description, &d.Location, &d.Date, &d.UserID, &fileID,
		&d.CreatedAt, &d.UpdatedAt,
		&d.Organizer.ID, &d.Organizer.Name, &d.Organizer.Email,
		&bannerID, &name, &path,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if fileID.Valid {
		d.FileID = &fileID.Int64
	}
	if bannerID.Valid {
		d.Banner = &models.Banner{ID: bannerID.Int64, Name: name.String, Path: path.String}
	}
	return &d, nil
}

// CreateMeetup сохраняет новую встречу и возвращает её ID.
func (s *Storage) CreateMeetup(ctx context.Context, m models.Meetup) (int64, error) {
	const op = "storage.CreateMeetup"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO meetups (title, description, location, date, user_id, file_id)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var id int64
	if err := s.DB.QueryRowContext(ctx, query,
		m.Title, m.Description, m.Location, m.Date, m.UserID, m.FileID).Scan(&id); err != nil {
		return 0, mapError(op, err)
	}
	return id, nil
}

// GetMeetup возвращает встречу по ID без связанных сущностей.
func (s *Storage) GetMeetup(ctx context.Context, id int64) (*models.Meetup, error) {
	const op = "storage.GetMeetup"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, title, description, location, date, user_id, file_id, created_at, updated_at
			  FROM meetups WHERE id = $1`
	var (
		m      models.Meetup
		fileID sql.NullInt64
	)
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Title, &m.Description, &m.Location,
		&m.Date, &m.UserID, &fileID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, mapError(op, err)
	}
	if fileID.Valid {
		m.FileID = &fileID.Int64
	}
	return &m, nil
}

// GetMeetupDetails возвращает встречу вместе с организатором и баннером.
func (s *Storage) GetMeetupDetails(ctx context.Context, id int64) (*models.MeetupDetails, error) {
	const op = "storage.GetMeetupDetails"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	d, err := scanMeetupDetails(s.DB.QueryRowContext(ctx, meetupDetailsSelect+` WHERE m.id = $1`, id))
	if err != nil {
		return nil, mapError(op, err)
	}
	return d, nil
}

// ListMeetups возвращает страницу встреч, упорядоченных по дате.
func (s *Storage) ListMeetups(ctx context.Context, filter models.MeetupFilter) ([]models.MeetupDetails, error) {
	const op = "storage.ListMeetups"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := meetupDetailsSelect + `
			  WHERE ($1::timestamptz IS NULL OR m.date >= $1)
			    AND ($2::timestamptz IS NULL OR m.date <= $2)
			  ORDER BY m.date, m.id
			  LIMIT $3 OFFSET $4`
	return s.queryMeetups(ctx, op, query, filter.From, filter.To, filter.Limit, filter.Offset)
}

// ListMeetupsByOrganizer возвращает все встречи организатора, упорядоченные по дате.
func (s *Storage) ListMeetupsByOrganizer(ctx context.Context, userID int64) ([]models.MeetupDetails, error) {
	const op = "storage.ListMeetupsByOrganizer"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := meetupDetailsSelect + ` WHERE m.user_id = $1 ORDER BY m.date, m.id`
	return s.queryMeetups(ctx, op, query, userID)
}

func (s *Storage) queryMeetups(ctx context.Context, op, query string, args ...any) ([]models.MeetupDetails, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.MeetupDetails, 0)
	for rows.Next() {
		d, err := scanMeetupDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateMeetup применяет частичное обновление встречи.
//
// При переносе даты транзакция блокирует встречу и строки её подписчиков
// (в том же порядке, что SubscribeWithinSlot) и отклоняет перенос с
// models.ErrSubscriberConflict, если кто-то из подписчиков уже записан
// на другую встречу с новой датой.
func (s *Storage) UpdateMeetup(ctx context.Context, id int64, upd models.MeetupUpdate) error {
	const op = "storage.UpdateMeetup"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if upd.Date != nil {
		if err = lockMeetupSubscribers(ctx, tx, id); err != nil {
			return mapError(op, err)
		}

		var conflict bool
		err = tx.QueryRowContext(ctx, `SELECT EXISTS (
				  SELECT 1 FROM subscriptions s
				  JOIN subscriptions o ON o.user_id = s.user_id AND o.meetup_id <> s.meetup_id
				  JOIN meetups om ON om.id = o.meetup_id
				  WHERE s.meetup_id = $1 AND om.date = $2
				)`, id, *upd.Date).Scan(&conflict)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if conflict {
			return fmt.Errorf("%s: %w", op, models.ErrSubscriberConflict)
		}
	}

	query := `UPDATE meetups
			  SET title = COALESCE($1, title),
			      description = COALESCE($2, description),
			      location = COALESCE($3, location),
			      date = COALESCE($4, date),
			      file_id = COALESCE($5, file_id),
			      updated_at = NOW()
			  WHERE id = $6`
	res, err := tx.ExecContext(ctx, query,
		upd.Title, upd.Description, upd.Location, upd.Date, upd.FileID, id)
	if err != nil {
		return mapError(op, err)
	}
	if err = expectOne(op, res); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// lockMeetupSubscribers блокирует встречу, затем строки её подписчиков по возрастанию ID.
func lockMeetupSubscribers(ctx context.Context, tx *sql.Tx, meetupID int64) error {
	var lockedID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM meetups WHERE id = $1 FOR UPDATE`, meetupID).
		Scan(&lockedID); err != nil {
		return err
	}

	rows, err := tx.QueryContext(ctx, `SELECT u.id FROM users u
			  JOIN subscriptions s ON s.user_id = u.id
			  WHERE s.meetup_id = $1
			  ORDER BY u.id
			  FOR UPDATE OF u`, meetupID)
	if err != nil {
		return err
	}
	defer func() {
		_ = rows.Close()
	}()
	for rows.Next() {
		if err = rows.Scan(&lockedID); err != nil {
			return err
		}
	}
	return rows.Err()
}

// DeleteMeetup удаляет встречу. Подписки на неё удаляются каскадно.
func (s *Storage) DeleteMeetup(ctx context.Context, id int64) error {
	const op = "storage.DeleteMeetup"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM meetups WHERE id = $1`, id)
	if err != nil {
		return mapError(op, err)
	}
	return expectOne(op, res)
}
