// Package sl содержит вспомогательные функции для логгера slog.
package sl

import "log/slog"

// Err возвращает атрибут "error" с текстом ошибки.
//
// Пример:
//
//	log.Error("failed to create meetup", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// NewLogger создает логгер в зависимости от окружения:
// Для local и dev текстовый вывод с уровнем debug, для prod JSON с уровнем info.
func NewLogger(env string, h slog.Handler) *slog.Logger {
	if h != nil {
		return slog.New(h)
	}
	return slog.New(handlerFor(env))
}
