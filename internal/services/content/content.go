// Package content contiene la lógica de los contenidos adjuntos a una
// cápsula: alta y baja tras la puerta de edición y listado tras la de
// lectura.
package content

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lromnav497/pardespue/internal/models"
	"github.com/lromnav497/pardespue/internal/services/access"
	"github.com/lromnav497/pardespue/internal/storage/repository"
)

// Errores terminales del servicio de contenidos.
var (
	// ErrCapsuleNotFound la cápsula no existe.
	ErrCapsuleNotFound = errors.New("capsule not found")
	// ErrContentNotFound el contenido no existe.
	ErrContentNotFound = errors.New("content not found")
)

// Repository define los métodos de almacenamiento que usa el servicio.
type Repository interface {
	ReadCapsule(ctx context.Context, id int) (*models.Capsule, error)
	GetRecipientRole(ctx context.Context, userUID string, capsuleID int) (string, error)
	CreateContent(ctx context.Context, c models.Content) (int, error)
	ReadContent(ctx context.Context, id int) (*models.Content, error)
	ListContentsByCapsule(ctx context.Context, capsuleID int) ([]*models.Content, error)
	DeleteContent(ctx context.Context, id int) (int, error)
}

// PlanResolver resuelve el plan vigente de un usuario.
type PlanResolver interface {
	GetPlan(ctx context.Context, userUID string) (string, error)
}

// Service implementa las operaciones sobre contenidos.
type Service struct {
	repo  Repository
	plans PlanResolver
	log   *slog.Logger
}

// New crea un Service de contenidos.
func New(repo Repository, plans PlanResolver, log *slog.Logger) *Service {
	return &Service{repo: repo, plans: plans, log: log}
}

// Add registra un contenido en una cápsula aún cerrada. Pasa por la
// puerta de edición: creador siempre, colaborador si su plan lo permite.
func (s *Service) Add(ctx context.Context, capsuleID int, userUID, siteRole string, req models.DummyContent) (int, error) {
	c, requester, err := s.load(ctx, capsuleID, userUID, siteRole)
	if err != nil {
		return 0, err
	}
	if err := access.CanEdit(time.Now().UTC(), c, requester); err != nil {
		return 0, err
	}

	id, err := s.repo.CreateContent(ctx, models.Content{
		Type:      req.Type,
		Path:      req.Path,
		CapsuleID: capsuleID,
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("added content", slog.Int("id", id), slog.Int("capsule_id", capsuleID))
	return id, nil
}

// List devuelve los contenidos de una cápsula que el solicitante puede
// leer. Antes de la apertura solo el creador y los colaboradores los ven.
func (s *Service) List(ctx context.Context, capsuleID int, userUID, siteRole string) ([]*models.Content, error) {
	c, requester, err := s.load(ctx, capsuleID, userUID, siteRole)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if c.Opened(now) {
		if err := access.CanRead(now, c, requester); err != nil {
			return nil, err
		}
	} else if err := access.CanEdit(now, c, requester); err != nil {
		return nil, err
	}
	return s.repo.ListContentsByCapsule(ctx, capsuleID)
}

// Remove elimina un contenido de una cápsula aún cerrada, tras la misma
// puerta de edición que el alta.
func (s *Service) Remove(ctx context.Context, contentID int, userUID, siteRole string) error {
	content, err := s.repo.ReadContent(ctx, contentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrContentNotFound
		}
		return err
	}

	c, requester, err := s.load(ctx, content.CapsuleID, userUID, siteRole)
	if err != nil {
		return err
	}
	if err := access.CanEdit(time.Now().UTC(), c, requester); err != nil {
		return err
	}

	n, err := s.repo.DeleteContent(ctx, contentID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrContentNotFound
	}
	s.log.Info("removed content", slog.Int("id", contentID), slog.Int("capsule_id", c.ID))
	return nil
}

func (s *Service) load(ctx context.Context, capsuleID int, userUID, siteRole string) (*models.Capsule, access.Requester, error) {
	requester := access.Requester{UID: userUID, SiteRole: siteRole}

	c, err := s.repo.ReadCapsule(ctx, capsuleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, requester, ErrCapsuleNotFound
		}
		return nil, requester, err
	}

	if userUID != "" {
		role, err := s.repo.GetRecipientRole(ctx, userUID, capsuleID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, requester, err
		}
		requester.RecipientRole = role

		planName, err := s.plans.GetPlan(ctx, userUID)
		if err != nil {
			return nil, requester, err
		}
		requester.Plan = planName
	}
	return c, requester, nil
}
