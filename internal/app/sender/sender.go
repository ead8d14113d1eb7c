// Package sender arranca el worker de envío: consume los eventos de
// apertura de cápsula y reparte notificaciones y correos.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/lromnav497/pardespue/internal/config"
	"github.com/lromnav497/pardespue/internal/lib/smtp"
	"github.com/lromnav497/pardespue/internal/rabbitmq"
	senderservice "github.com/lromnav497/pardespue/internal/services/sender"
	"github.com/lromnav497/pardespue/internal/storage/repository"
)

// App es la aplicación del worker de envío.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New construye el worker con sus dependencias.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.New(db, transport, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run consume la cola de aperturas hasta que el contexto se cancele.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.QueueCapsuleOpened, a.senderService.HandleCapsuleOpened)
	if err != nil {
		a.logger.Error("failed to start capsule opened consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	return nil
}
