package meetapp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/meetapp/internal/cache"
	"github.com/magabrotheeeer/meetapp/internal/config"
	"github.com/magabrotheeeer/meetapp/internal/filestore"
	"github.com/magabrotheeeer/meetapp/internal/lib/jwt"
	"github.com/magabrotheeeer/meetapp/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/meetapp/internal/lib/sl"
	"github.com/magabrotheeeer/meetapp/internal/migrations"
	authservice "github.com/magabrotheeeer/meetapp/internal/services/auth"
	fileservice "github.com/magabrotheeeer/meetapp/internal/services/file"
	meetupservice "github.com/magabrotheeeer/meetapp/internal/services/meetup"
	subservice "github.com/magabrotheeeer/meetapp/internal/services/subscription"
	userservice "github.com/magabrotheeeer/meetapp/internal/services/user"
	"github.com/magabrotheeeer/meetapp/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-сервер API вместе с его внешними подключениями.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	amqp   *amqp.Connection
	ch     *amqp.Channel
}

// New подключается к PostgreSQL, Redis и RabbitMQ, применяет миграции и собирает маршруты.
// Если RabbitMQ не настроен, уведомления о подписках не публикуются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.New(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store, err := filestore.New(ctx, cfg.FileStorage, logger)
	if err != nil {
		_ = db.Close()
		_ = cacheRedis.Close()
		return nil, err
	}

	app := &App{
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}

	var publisher subservice.Publisher
	if cfg.RabbitMQ.URL != "" {
		app.amqp, err = rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.RetryDelay)
		if err != nil {
			app.close()
			return nil, err
		}
		app.ch, err = rabbitmq.SetupChannel(app.amqp, rabbitmq.GetNotificationQueues())
		if err != nil {
			app.close()
			return nil, err
		}
		publisher = rabbitmq.NewPublisher(app.ch, rabbitmq.NotificationsExchange)
	} else {
		logger.Warn("rabbitmq url is not set, subscription notifications are disabled")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	publicURL := cfg.HTTPServer.PublicURL
	meetups := meetupservice.NewMeetupService(db, cacheRedis, publicURL, logger)
	meetups.SetLocation(time.Local)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Auth:          authservice.NewAuthService(db, jwtMaker, logger),
		Users:         userservice.NewUserService(db, logger),
		Files:         fileservice.NewFileService(db, store, publicURL, logger),
		Meetups:       meetups,
		Subscriptions: subservice.NewSubscriptionService(db, publisher, publicURL, logger),
		Health: func(ctx context.Context) error {
			return repository.CheckDatabaseReady(ctx, db)
		},
		Limiter:       rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
		MaxUploadSize: cfg.FileStorage.MaxUploadSize,
		Location:      time.Local,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// Run запускает сервер и блокируется до ошибки или отмены ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq channel", sl.Err(err))
		}
	}
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
