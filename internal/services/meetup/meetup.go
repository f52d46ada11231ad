// Package services содержит бизнес-логику встреч: выборки, создание, изменение
// и отмену с проверкой владельца и даты, а также кэширование карточки встречи.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/meetapp/internal/cache"
	"github.com/magabrotheeeer/meetapp/internal/lib/dates"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/models"
)

// Параметры пагинации списка встреч.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// MeetupRepository описывает доступ к встречам и баннерам в хранилище.
type MeetupRepository interface {
	CreateMeetup(ctx context.Context, m models.Meetup) (int64, error)
	GetMeetup(ctx context.Context, id int64) (*models.Meetup, error)
	GetMeetupDetails(ctx context.Context, id int64) (*models.MeetupDetails, error)
	ListMeetups(ctx context.Context, filter models.MeetupFilter) ([]models.MeetupDetails, error)
	ListMeetupsByOrganizer(ctx context.Context, userID int64) ([]models.MeetupDetails, error)
	UpdateMeetup(ctx context.Context, id int64, upd models.MeetupUpdate) error
	DeleteMeetup(ctx context.Context, id int64) error
	GetFile(ctx context.Context, id int64) (*models.File, error)
}

// Cache описывает методы для кэширования данных. SetIfVersion не записывает
// значение, если ключ инвалидировали после чтения Version.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Version(ctx context.Context, key string) (int64, error)
	SetIfVersion(ctx context.Context, key string, value any, expiration time.Duration, version int64) (bool, error)
	Invalidate(ctx context.Context, key string) error
}

// MeetupService реализует операции над встречами.
type MeetupService struct {
	repo      MeetupRepository
	cache     Cache
	publicURL string
	now       func() time.Time
	loc       *time.Location
	log       *slog.Logger
}

// NewMeetupService создает новый экземпляр MeetupService.
func NewMeetupService(repo MeetupRepository, cache Cache, publicURL string, log *slog.Logger) *MeetupService {
	return &MeetupService{
		repo:      repo,
		cache:     cache,
		publicURL: publicURL,
		now:       time.Now,
		loc:       time.Local,
		log:       log,
	}
}

// SetClock подменяет источник текущего времени.
func (s *MeetupService) SetClock(now func() time.Time) {
	s.now = now
}

// SetLocation задаёт часовой пояс сервера, в котором округляется дата встречи.
func (s *MeetupService) SetLocation(loc *time.Location) {
	s.loc = loc
}

// List возвращает страницу встреч. Если day задан, выбираются встречи этого дня
// (от начала до конца суток в часовом поясе day).
func (s *MeetupService) List(ctx context.Context, day *time.Time, page, limit int) ([]models.MeetupDetails, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	filter := models.MeetupFilter{Limit: limit, Offset: (page - 1) * limit}
	if day != nil {
		from, to := dates.StartOfDay(*day), dates.EndOfDay(*day)
		filter.From, filter.To = &from, &to
	}

	list, err := s.repo.ListMeetups(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.decorateAll(list), nil
}

// ListOrganizing возвращает все встречи организатора по возрастанию даты.
func (s *MeetupService) ListOrganizing(ctx context.Context, organizerID int64) ([]models.MeetupDetails, error) {
	list, err := s.repo.ListMeetupsByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, err
	}
	return s.decorateAll(list), nil
}

// Get возвращает встречу по ID, сначала пытаясь прочитать её из кэша.
func (s *MeetupService) Get(ctx context.Context, id int64) (*models.MeetupDetails, error) {
	key := cache.MeetupKey(id)

	var cached models.MeetupDetails
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read meetup from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		cached.Past = cached.IsPast(s.now())
		return &cached, nil
	}

	version, verr := s.cache.Version(ctx, key)
	d, err := s.details(ctx, id)
	if err != nil {
		return nil, err
	}
	if verr != nil {
		s.log.Warn("failed to read meetup cache version", slog.String("key", key), sl.Err(verr))
		return d, nil
	}
	stored, err := s.cache.SetIfVersion(ctx, key, d, cache.MeetupTTL, version)
	if err != nil {
		s.log.Warn("failed to cache meetup", slog.String("key", key), sl.Err(err))
	} else if !stored {
		s.log.Debug("meetup changed while loading, cache not updated", slog.String("key", key))
	}
	return d, nil
}

// Create создаёт встречу организатора organizerID.
func (s *MeetupService) Create(ctx context.Context, organizerID int64, in models.MeetupInput) (*models.MeetupDetails, error) {
	if err := s.checkDate(in.Date); err != nil {
		return nil, err
	}
	if err := s.checkBanner(ctx, in.FileID); err != nil {
		return nil, err
	}

	id, err := s.repo.CreateMeetup(ctx, models.Meetup{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Date:        in.Date,
		UserID:      organizerID,
		FileID:      in.FileID,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("meetup created", slog.Int64("meetup_id", id), slog.Int64("user_id", organizerID))
	return s.details(ctx, id)
}

// Update применяет частичное изменение встречи. Менять можно только свою
// и ещё не состоявшуюся встречу.
func (s *MeetupService) Update(ctx context.Context, id, organizerID int64, upd models.MeetupUpdate) (*models.MeetupDetails, error) {
	if _, err := s.editable(ctx, id, organizerID); err != nil {
		return nil, err
	}
	if upd.Date != nil {
		if err := s.checkDate(*upd.Date); err != nil {
			return nil, err
		}
	}
	if err := s.checkBanner(ctx, upd.FileID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateMeetup(ctx, id, upd); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrMeetupNotFound
		}
		return nil, err
	}
	s.invalidate(ctx, id)

	s.log.Info("meetup updated", slog.Int64("meetup_id", id))
	return s.details(ctx, id)
}

// Delete отменяет встречу вместе с подписками на неё.
func (s *MeetupService) Delete(ctx context.Context, id, organizerID int64) error {
	if _, err := s.editable(ctx, id, organizerID); err != nil {
		return err
	}

	if err := s.repo.DeleteMeetup(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrMeetupNotFound
		}
		return err
	}
	s.invalidate(ctx, id)

	s.log.Info("meetup deleted", slog.Int64("meetup_id", id))
	return nil
}

func (s *MeetupService) editable(ctx context.Context, id, organizerID int64) (*models.Meetup, error) {
	m, err := s.repo.GetMeetup(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrMeetupNotFound
	}
	if err != nil {
		return nil, err
	}
	if m.UserID != organizerID {
		return nil, models.ErrNotOrganizer
	}
	if m.IsPast(s.now()) {
		return nil, models.ErrMeetupPast
	}
	return m, nil
}

// checkDate отклоняет даты, начало часа которых уже прошло. Час отсчитывается
// в поясе сервера, смещение из запроса на результат не влияет.
func (s *MeetupService) checkDate(date time.Time) error {
	if dates.StartOfHour(date.In(s.loc)).Before(s.now()) {
		return models.ErrPastDate
	}
	return nil
}

func (s *MeetupService) checkBanner(ctx context.Context, fileID *int64) error {
	if fileID == nil {
		return nil
	}
	_, err := s.repo.GetFile(ctx, *fileID)
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrBannerNotFound
	}
	return err
}

func (s *MeetupService) details(ctx context.Context, id int64) (*models.MeetupDetails, error) {
	d, err := s.repo.GetMeetupDetails(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrMeetupNotFound
	}
	if err != nil {
		return nil, err
	}
	s.decorate(d)
	return d, nil
}

func (s *MeetupService) invalidate(ctx context.Context, id int64) {
	key := cache.MeetupKey(id)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to invalidate meetup cache", slog.String("key", key), sl.Err(err))
	}
}

func (s *MeetupService) decorate(d *models.MeetupDetails) {
	d.Past = d.IsPast(s.now())
	if d.Banner != nil {
		d.Banner.URL = models.FileURL(s.publicURL, d.Banner.Path)
	}
}

func (s *MeetupService) decorateAll(list []models.MeetupDetails) []models.MeetupDetails {
	for i := range list {
		s.decorate(&list[i])
	}
	return list
}
