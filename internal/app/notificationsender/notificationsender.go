// Package notificationsender собирает воркер рассылки уведомлений:
// подключение к RabbitMQ, SMTP транспорт и потребитель очереди решений.
package notificationsender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/tender-procurement/internal/config"
	"github.com/magabrotheeeer/tender-procurement/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/tender-procurement/internal/lib/smtp"
	"github.com/magabrotheeeer/tender-procurement/internal/services/notifier"
)

// App воркер отправки писем о решениях по предложениям.
type App struct {
	conn            *amqp.Connection
	ch              *amqp.Channel
	notifierService *notifier.Service
	logger          *slog.Logger
}

// New создает воркер и подготавливает очереди уведомлений.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	notifierService := notifier.New(transport, logger)

	return &App{
		conn:            conn,
		ch:              ch,
		notifierService: notifierService,
		logger:          logger,
	}, nil
}

// Run запускает потребителя очереди и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.BidDecisionQueue, a.notifierService.SendBidDecision)
	if err != nil {
		a.logger.Error("failed to start bid decision consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("Notification sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
