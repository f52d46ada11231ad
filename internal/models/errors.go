package models

import "errors"

// Ошибки хранилища.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// Ошибки пользователей и аутентификации.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrPasswordMismatch = errors.New("password does not match")
	ErrInvalidToken     = errors.New("invalid or expired token")
)

// Ошибки файлов.
var (
	ErrFileNotFound       = errors.New("file not found")
	ErrUnsupportedContent = errors.New("only image files are allowed")
)

// Ошибки встреч.
var (
	ErrMeetupNotFound = errors.New("meetup not found")
	ErrPastDate       = errors.New("past dates are not permitted")
	ErrBannerNotFound = errors.New("banner does not exist")
	ErrNotOrganizer   = errors.New("meetup belongs to another user")
	ErrMeetupPast     = errors.New("meetup already happened")

	ErrSubscriberConflict = errors.New("a subscriber already has another meetup at this time")
)

// Ошибки подписок.
var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrOwnMeetup            = errors.New("you cannot subscribe to a meetup that you are organizing")
	ErrTimeConflict         = errors.New("you cannot subscribe to two meetups at the same time")
	ErrNotSubscriber        = errors.New("subscription belongs to another user")
)
