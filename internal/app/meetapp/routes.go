// Package meetapp собирает HTTP API сервиса встреч.
package meetapp

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/meetapp/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/meetapp/internal/http/handlers/file/download"
	"github.com/magabrotheeeer/meetapp/internal/http/handlers/file/upload"
	"github.com/magabrotheeeer/meetapp/internal/http/handlers/health"
	meetupcreate "github.com/magabrotheeeer/meetapp/internal/http/handlers/meetup/create"
	meetuplist "github.com/magabrotheeeer/meetapp/internal/http/handlers/meetup/list"
	"github.com/magabrotheeeer/meetapp/internal/http/handlers/meetup/organizing"
	"github.com/magabrotheeeer/meetapp/internal/http/handlers/meetup/read"
	meetupremove "github.com/magabrotheeeer/meetapp/internal/http/handlers/meetup/remove"
	meetupupdate "github.com/magabrotheeeer/meetapp/internal/http/handlers/meetup/update"
	subcreate "github.com/magabrotheeeer/meetapp/internal/http/handlers/subscription/create"
	sublist "github.com/magabrotheeeer/meetapp/internal/http/handlers/subscription/list"
	subremove "github.com/magabrotheeeer/meetapp/internal/http/handlers/subscription/remove"
	"github.com/magabrotheeeer/meetapp/internal/http/handlers/user/register"
	userupdate "github.com/magabrotheeeer/meetapp/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/meetapp/internal/http/middlewarectx"
	"github.com/magabrotheeeer/meetapp/internal/metrics"
)

// AuthService вход и проверка токенов.
type AuthService interface {
	login.Service
	middlewarectx.Service
}

// UserService регистрация и изменение профиля.
type UserService interface {
	register.Service
	userupdate.Service
}

// FileService загрузка и выдача баннеров.
type FileService interface {
	upload.Service
	download.Service
}

// MeetupService операции со встречами.
type MeetupService interface {
	meetuplist.Service
	read.Service
	meetupcreate.Service
	meetupupdate.Service
	meetupremove.Service
	organizing.Service
}

// SubscriptionService операции с подписками.
type SubscriptionService interface {
	subcreate.Service
	sublist.Service
	subremove.Service
}

// Deps зависимости маршрутов.
type Deps struct {
	Auth          AuthService
	Users         UserService
	Files         FileService
	Meetups       MeetupService
	Subscriptions SubscriptionService
	Health        health.CheckFunc
	Limiter       *rate.Limiter
	MaxUploadSize int64
	Location      *time.Location
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/users", register.New(logger, deps.Users).ServeHTTP)
		r.Post("/auth", login.New(logger, deps.Auth).ServeHTTP)
		r.Get("/files/{path}", download.New(logger, deps.Files).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(deps.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, deps.Limiter))

			r.Put("/users", userupdate.New(logger, deps.Users).ServeHTTP)
			r.Post("/files", upload.New(logger, deps.Files, deps.MaxUploadSize).ServeHTTP)

			r.Get("/meetups", meetuplist.New(logger, deps.Meetups, deps.Location).ServeHTTP)
			r.Post("/meetups", meetupcreate.New(logger, deps.Meetups).ServeHTTP)
			r.Get("/meetups/{id}", read.New(logger, deps.Meetups).ServeHTTP)
			r.Put("/meetups/{id}", meetupupdate.New(logger, deps.Meetups).ServeHTTP)
			r.Delete("/meetups/{id}", meetupremove.New(logger, deps.Meetups).ServeHTTP)
			r.Get("/organizing", organizing.New(logger, deps.Meetups).ServeHTTP)

			r.Post("/meetups/{id}/subscriptions", subcreate.New(logger, deps.Subscriptions).ServeHTTP)
			r.Get("/subscriptions", sublist.New(logger, deps.Subscriptions).ServeHTTP)
			r.Delete("/subscriptions/{id}", subremove.New(logger, deps.Subscriptions).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, deps.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
