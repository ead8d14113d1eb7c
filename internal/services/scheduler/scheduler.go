// Package scheduler contiene el worker que vigila las fechas de
// apertura: publica un evento por cada cápsula recién abierta y la
// marca como anunciada para no repetir el aviso.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/lromnav497/pardespue/internal/lib/sl"
	"github.com/lromnav497/pardespue/internal/models"
	"github.com/lromnav497/pardespue/internal/rabbitmq"
)

// Repository define los métodos de almacenamiento que usa el worker.
type Repository interface {
	FindCapsulesOpeningToday(ctx context.Context) ([]*models.CapsuleOpenedEvent, error)
	ListRecipientUIDsByCapsule(ctx context.Context, capsuleID int) ([]string, error)
	MarkOpeningNotified(ctx context.Context, id int) error
}

// Service publica los eventos de apertura de cápsulas.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New crea un Service del scheduler.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// WatchCapsuleOpenings ejecuta una pasada inmediata y después una por
// intervalo hasta que el contexto se cancela.
func (s *Service) WatchCapsuleOpenings(ctx context.Context, channel *amqp.Channel, interval time.Duration) {
	s.runCapsuleOpenings(ctx, channel)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runCapsuleOpenings(ctx, channel)
		case <-ctx.Done():
			return
		}
	}
}

// runCapsuleOpenings publica un evento por cada cápsula abierta aún no
// anunciada. La marca de anunciada solo se pone tras publicar con
// éxito: un fallo del broker deja la cápsula para la siguiente pasada.
func (s *Service) runCapsuleOpenings(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("looking for capsules reaching their opening date")
	events, err := s.repo.FindCapsulesOpeningToday(ctx)
	if err != nil {
		s.log.Error("failed to find opening capsules", sl.Err(err))
		return
	}
	if len(events) == 0 {
		s.log.Info("no capsules opening")
		return
	}
	s.log.Info("found opening capsules", "count", len(events))

	for _, event := range events {
		uids, err := s.repo.ListRecipientUIDsByCapsule(ctx, event.CapsuleID)
		if err != nil {
			s.log.Error("failed to list recipients", "capsule_id", event.CapsuleID, sl.Err(err))
			continue
		}
		event.RecipientUIDs = uids

		if err := rabbitmq.PublishMessage(channel, rabbitmq.Exchange, rabbitmq.RoutingKeyCapsuleOpened, event); err != nil {
			s.log.Error("failed to publish message", "capsule_id", event.CapsuleID, sl.Err(err))
			continue
		}
		if err := s.repo.MarkOpeningNotified(ctx, event.CapsuleID); err != nil {
			s.log.Error("failed to mark capsule as notified", "capsule_id", event.CapsuleID, sl.Err(err))
			continue
		}
		s.log.Info("published capsule opened event",
			"capsule_id", event.CapsuleID, "recipients", len(uids))
	}
}
