// Package recipient contiene la lógica del registro de destinatarios:
// altas y bajas sobre cápsulas grupales y el listado de cápsulas
// compartidas con un usuario.
package recipient

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lromnav497/pardespue/internal/models"
	"github.com/lromnav497/pardespue/internal/services/access"
	"github.com/lromnav497/pardespue/internal/storage/repository"
)

// Errores terminales del registro de destinatarios.
var (
	// ErrNotGroupCapsule los destinatarios solo existen en cápsulas grupales.
	ErrNotGroupCapsule = errors.New("capsule privacy is not group")
	// ErrCreatorAsRecipient el creador no puede ser destinatario de su propia cápsula.
	ErrCreatorAsRecipient = errors.New("creator cannot be a recipient")
	// ErrUserNotFound el usuario a añadir no existe.
	ErrUserNotFound = errors.New("user not found")
	// ErrCapsuleNotFound la cápsula no existe.
	ErrCapsuleNotFound = errors.New("capsule not found")
	// ErrRecipientNotFound el usuario no es destinatario de la cápsula.
	ErrRecipientNotFound = errors.New("recipient not found")
)

// Repository define los métodos de almacenamiento que usa el registro.
type Repository interface {
	ReadCapsule(ctx context.Context, id int) (*models.Capsule, error)
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
	AddRecipient(ctx context.Context, r models.Recipient) error
	RemoveRecipient(ctx context.Context, userUID string, capsuleID int) (int, error)
	GetRecipientRole(ctx context.Context, userUID string, capsuleID int) (string, error)
	ListRecipientsByCapsule(ctx context.Context, capsuleID int) ([]*models.Recipient, error)
	ListSharedWithUser(ctx context.Context, userUID string) ([]*models.SharedCapsule, error)
}

// PlanResolver resuelve el plan vigente de un usuario.
type PlanResolver interface {
	GetPlan(ctx context.Context, userUID string) (string, error)
}

// Service implementa las operaciones del registro de destinatarios.
type Service struct {
	repo  Repository
	plans PlanResolver
	log   *slog.Logger
}

// New crea un Service del registro de destinatarios.
func New(repo Repository, plans PlanResolver, log *slog.Logger) *Service {
	return &Service{repo: repo, plans: plans, log: log}
}

// Add añade o reasigna un destinatario a una cápsula grupal. Repetir el
// alta del mismo usuario actualiza su rol en vez de duplicar la fila.
// Solo el creador puede gestionar destinatarios.
func (s *Service) Add(ctx context.Context, capsuleID int, actorUID, actorRole string, req models.DummyRecipient) error {
	c, err := s.requireEditable(ctx, capsuleID, actorUID, actorRole)
	if err != nil {
		return err
	}
	if c.Privacy != models.PrivacyGroup {
		return ErrNotGroupCapsule
	}
	if req.UserUID == c.CreatorUID {
		return ErrCreatorAsRecipient
	}

	if _, err := s.repo.GetUserByUID(ctx, req.UserUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.repo.AddRecipient(ctx, models.Recipient{
		UserUID:   req.UserUID,
		CapsuleID: capsuleID,
		Role:      req.Role,
	}); err != nil {
		return err
	}
	s.log.Info("added recipient",
		slog.Int("capsule_id", capsuleID),
		slog.String("user_uid", req.UserUID),
		slog.String("role", req.Role))
	return nil
}

// Remove elimina un destinatario de la cápsula.
func (s *Service) Remove(ctx context.Context, capsuleID int, actorUID, actorRole, userUID string) error {
	if _, err := s.requireEditable(ctx, capsuleID, actorUID, actorRole); err != nil {
		return err
	}

	n, err := s.repo.RemoveRecipient(ctx, userUID, capsuleID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRecipientNotFound
	}
	s.log.Info("removed recipient",
		slog.Int("capsule_id", capsuleID),
		slog.String("user_uid", userUID))
	return nil
}

// List devuelve los destinatarios de la cápsula. Solo el creador (o un
// administrador) puede consultarlos.
func (s *Service) List(ctx context.Context, capsuleID int, actorUID, actorRole string) ([]*models.Recipient, error) {
	if _, err := s.requireEditable(ctx, capsuleID, actorUID, actorRole); err != nil {
		return nil, err
	}
	return s.repo.ListRecipientsByCapsule(ctx, capsuleID)
}

// SharedWith devuelve las cápsulas compartidas con el usuario junto con
// su rol y si ya están disponibles para leer.
func (s *Service) SharedWith(ctx context.Context, userUID string) ([]*models.SharedCapsule, error) {
	return s.repo.ListSharedWithUser(ctx, userUID)
}

// requireEditable carga la cápsula y comprueba que el actor puede
// gestionar sus destinatarios: el creador siempre, un administrador
// también. Los colaboradores editan contenido, no el registro.
func (s *Service) requireEditable(ctx context.Context, capsuleID int, actorUID, actorRole string) (*models.Capsule, error) {
	c, err := s.repo.ReadCapsule(ctx, capsuleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCapsuleNotFound
		}
		return nil, err
	}

	req := access.Requester{UID: actorUID, SiteRole: actorRole}
	if !req.IsCreator(c) && !req.IsAdmin() {
		return nil, access.ErrNotCreator
	}
	// El registro solo se gestiona antes de la apertura.
	if c.Opened(time.Now().UTC()) {
		return nil, access.ErrAlreadyOpened
	}
	return c, nil
}
