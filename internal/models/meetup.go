package models

import "time"

// Meetup встреча, созданная организатором (UserID).
type Meetup struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	UserID      int64     `json:"user_id"`
	FileID      *int64    `json:"file_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsPast сообщает, состоялась ли встреча к моменту now (now >= Date).
func (m Meetup) IsPast(now time.Time) bool {
	return !now.Before(m.Date)
}

// Organizer краткие данные организатора встречи.
type Organizer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Banner краткие данные баннера встречи.
type Banner struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

// MeetupDetails встреча вместе с организатором и баннером.
// Past вычисляется на момент чтения.
type MeetupDetails struct {
	Meetup
	Past      bool      `json:"past"`
	Organizer Organizer `json:"user"`
	Banner    *Banner   `json:"banner"`
}

// MeetupUpdate частичное обновление встречи. nil означает, что поле не меняется.
type MeetupUpdate struct {
	Title       *string
	Description *string
	Location    *string
	Date        *time.Time
	FileID      *int64
}

// MeetupFilter параметры выборки списка встреч.
// Если From и To заданы, выбираются встречи с датой в интервале [From, To].
type MeetupFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// MeetupInput данные для создания встречи.
type MeetupInput struct {
	Title       string
	Description string
	Location    string
	Date        time.Time
	FileID      *int64
}
