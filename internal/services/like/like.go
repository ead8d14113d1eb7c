// Package like contiene la lógica de los "me gusta" sobre cápsulas
// abiertas: alternar el voto del usuario manteniendo el contador.
package like

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lromnav497/pardespue/internal/models"
	"github.com/lromnav497/pardespue/internal/services/access"
	"github.com/lromnav497/pardespue/internal/storage/repository"
)

// ErrCapsuleNotFound la cápsula no existe.
var ErrCapsuleNotFound = errors.New("capsule not found")

// Repository define los métodos de almacenamiento que usa el servicio.
type Repository interface {
	ReadCapsule(ctx context.Context, id int) (*models.Capsule, error)
	GetRecipientRole(ctx context.Context, userUID string, capsuleID int) (string, error)
	HasLike(ctx context.Context, userUID string, capsuleID int) (bool, error)
	AddLike(ctx context.Context, userUID string, capsuleID int) error
	RemoveLike(ctx context.Context, userUID string, capsuleID int) error
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
	CreateNotification(ctx context.Context, n models.Notification) (int, error)
}

// PlanResolver resuelve el plan vigente de un usuario.
type PlanResolver interface {
	GetPlan(ctx context.Context, userUID string) (string, error)
}

// Service implementa el alternado de "me gusta".
type Service struct {
	repo  Repository
	plans PlanResolver
	log   *slog.Logger
}

// New crea un Service de "me gusta".
func New(repo Repository, plans PlanResolver, log *slog.Logger) *Service {
	return &Service{repo: repo, plans: plans, log: log}
}

// Toggle alterna el "me gusta" del usuario sobre una cápsula abierta que
// puede leer. Devuelve true si tras la operación el voto queda puesto.
// El primer voto genera un aviso al creador.
func (s *Service) Toggle(ctx context.Context, capsuleID int, userUID, siteRole string) (bool, error) {
	c, err := s.repo.ReadCapsule(ctx, capsuleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrCapsuleNotFound
		}
		return false, err
	}

	req := access.Requester{UID: userUID, SiteRole: siteRole}
	role, err := s.repo.GetRecipientRole(ctx, userUID, capsuleID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	req.RecipientRole = role

	planName, err := s.plans.GetPlan(ctx, userUID)
	if err != nil {
		return false, err
	}
	req.Plan = planName

	now := time.Now().UTC()
	if err := access.CanRead(now, c, req); err != nil {
		return false, err
	}
	if !c.Opened(now) {
		return false, access.ErrNotYetOpen
	}

	liked, err := s.repo.HasLike(ctx, userUID, capsuleID)
	if err != nil {
		return false, err
	}
	if liked {
		if err := s.repo.RemoveLike(ctx, userUID, capsuleID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.repo.AddLike(ctx, userUID, capsuleID); err != nil {
		return false, err
	}
	if c.CreatorUID != userUID {
		s.notifyCreator(ctx, c, userUID)
	}
	return true, nil
}

func (s *Service) notifyCreator(ctx context.Context, c *models.Capsule, actorUID string) {
	actor, err := s.repo.GetUserByUID(ctx, actorUID)
	actorName := actorUID
	if err == nil {
		actorName = actor.Username
	}

	capsuleID := c.ID
	if _, err := s.repo.CreateNotification(ctx, models.Notification{
		UserUID:   c.CreatorUID,
		CapsuleID: &capsuleID,
		Message:   fmt.Sprintf("A %s le gusta tu cápsula «%s».", actorName, c.Title),
	}); err != nil {
		s.log.Warn("failed to create notification",
			slog.Int("capsule_id", c.ID), slog.Any("err", err))
	}
}
