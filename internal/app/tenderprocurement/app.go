// Package tenderprocurement собирает все зависимости приложения тендерных
// закупок: хранилище, кеш, очередь уведомлений, лицензионный клиент,
// сервисы и HTTP-сервер с graceful shutdown.
package tenderprocurement

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/tender-procurement/internal/cache"
	"github.com/magabrotheeeer/tender-procurement/internal/config"
	"github.com/magabrotheeeer/tender-procurement/internal/lib/jwt"
	"github.com/magabrotheeeer/tender-procurement/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/tender-procurement/internal/licenseclient"
	"github.com/magabrotheeeer/tender-procurement/internal/migrations"
	authservice "github.com/magabrotheeeer/tender-procurement/internal/services/auth"
	bidservice "github.com/magabrotheeeer/tender-procurement/internal/services/bid"
	licenseservice "github.com/magabrotheeeer/tender-procurement/internal/services/license"
	tenderservice "github.com/magabrotheeeer/tender-procurement/internal/services/tender"
	"github.com/magabrotheeeer/tender-procurement/internal/storage/repository"
)

// App агрегирует ресурсы приложения и его HTTP-сервер.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	rabbitmq *amqp.Connection
}

// New инициализирует хранилище, миграции, кеш, очередь уведомлений,
// сервисы и маршрутизацию. Стартовый администратор создается здесь же,
// до запуска сервера.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := rabbitmq.SetupChannel(rabbitConn)
	if err != nil {
		rabbitConn.Close()
		return nil, err
	}
	notifier := rabbitmq.NewNotifier(rabbitCh)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	verifier := licenseclient.New(cfg.LicenseServer.URL, cfg.LicenseServer.ProductName)

	authService := authservice.New(db, jwtMaker, logger)
	tenderService := tenderservice.New(db, cacheRedis, logger)
	bidService := bidservice.New(db, db, db, cacheRedis, notifier, logger)
	licenseService := licenseservice.New(cfg.LicenseServer, db, verifier, logger)

	if err = authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminFullName); err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, tenderService, bidService, licenseService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		rabbitmq: rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
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
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.rabbitmq.Close(); cerr != nil {
			a.logger.Warn("failed to close rabbitmq connection", slog.Any("err", cerr))
		}
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Warn("failed to close database", slog.Any("err", cerr))
		}
		return err
	}
}
