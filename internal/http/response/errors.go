package response

import (
	"errors"
	"net/http"

	"github.com/magabrotheeeer/meetapp/internal/models"
)

// statusByError соответствие доменных ошибок HTTP-статусам.
var statusByError = []struct {
	err    error
	status int
}{
	{models.ErrUserNotFound, http.StatusNotFound},
	{models.ErrMeetupNotFound, http.StatusNotFound},
	{models.ErrSubscriptionNotFound, http.StatusNotFound},
	{models.ErrFileNotFound, http.StatusNotFound},
	{models.ErrUserExists, http.StatusUnprocessableEntity},
	{models.ErrPasswordMismatch, http.StatusUnprocessableEntity},
	{models.ErrPastDate, http.StatusBadRequest},
	{models.ErrBannerNotFound, http.StatusBadRequest},
	{models.ErrMeetupPast, http.StatusBadRequest},
	{models.ErrNotOrganizer, http.StatusBadRequest},
	{models.ErrSubscriberConflict, http.StatusBadRequest},
	{models.ErrNotSubscriber, http.StatusBadRequest},
	{models.ErrUnsupportedContent, http.StatusBadRequest},
	{models.ErrOwnMeetup, http.StatusUnauthorized},
	{models.ErrTimeConflict, http.StatusUnauthorized},
	{models.ErrInvalidToken, http.StatusUnauthorized},
}

// FromError возвращает HTTP-статус и ответ для ошибки сервиса.
// Неизвестные ошибки отдаются как 500 без подробностей.
func FromError(err error) (int, ErrorResponse) {
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			return e.status, Error(e.err.Error())
		}
	}
	return http.StatusInternalServerError, Error("internal error")
}
