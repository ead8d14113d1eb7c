// Package comment contiene la lógica de los comentarios sobre cápsulas
// abiertas: alta, edición y borrado por su autor, y el aviso al creador
// de la cápsula.
package comment

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

// Errores terminales del servicio de comentarios.
var (
	// ErrNotAuthor solo el autor puede editar o borrar su comentario.
	ErrNotAuthor = errors.New("not the comment author")
	// ErrCommentNotFound el comentario no existe.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrCapsuleNotFound la cápsula no existe.
	ErrCapsuleNotFound = errors.New("capsule not found")
)

// Repository define los métodos de almacenamiento que usa el servicio.
type Repository interface {
	ReadCapsule(ctx context.Context, id int) (*models.Capsule, error)
	GetRecipientRole(ctx context.Context, userUID string, capsuleID int) (string, error)
	CreateComment(ctx context.Context, c models.Comment) (int, error)
	ReadComment(ctx context.Context, id int) (*models.Comment, error)
	ListCommentsByCapsule(ctx context.Context, capsuleID int) ([]*models.CommentView, error)
	UpdateComment(ctx context.Context, id int, text string) (int, error)
	DeleteComment(ctx context.Context, id int) (int, error)
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
	CreateNotification(ctx context.Context, n models.Notification) (int, error)
}

// PlanResolver resuelve el plan vigente de un usuario.
type PlanResolver interface {
	GetPlan(ctx context.Context, userUID string) (string, error)
}

// Service implementa las operaciones sobre comentarios.
type Service struct {
	repo  Repository
	plans PlanResolver
	log   *slog.Logger
}

// New crea un Service de comentarios.
func New(repo Repository, plans PlanResolver, log *slog.Logger) *Service {
	return &Service{repo: repo, plans: plans, log: log}
}

// Create añade un comentario a una cápsula que el usuario puede leer y
// que ya está abierta. Genera un aviso al creador de la cápsula salvo
// que el autor sea él mismo.
func (s *Service) Create(ctx context.Context, capsuleID int, userUID, siteRole, text string) (int, error) {
	c, err := s.readableOpened(ctx, capsuleID, userUID, siteRole)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateComment(ctx, models.Comment{
		CapsuleID: capsuleID,
		UserUID:   userUID,
		Text:      text,
	})
	if err != nil {
		return 0, err
	}

	if c.CreatorUID != userUID {
		s.notifyCreator(ctx, c, userUID, "Tu cápsula «%s» tiene un comentario nuevo de %s.")
	}
	s.log.Info("created comment", slog.Int("id", id), slog.Int("capsule_id", capsuleID))
	return id, nil
}

// Update cambia el texto de un comentario. Solo su autor puede hacerlo.
func (s *Service) Update(ctx context.Context, commentID int, userUID, text string) error {
	if _, err := s.ownComment(ctx, commentID, userUID); err != nil {
		return err
	}
	n, err := s.repo.UpdateComment(ctx, commentID, text)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// Delete borra un comentario. Lo puede hacer su autor o un administrador.
func (s *Service) Delete(ctx context.Context, commentID int, userUID, siteRole string) error {
	if siteRole != models.SiteRoleAdmin {
		if _, err := s.ownComment(ctx, commentID, userUID); err != nil {
			return err
		}
	}
	n, err := s.repo.DeleteComment(ctx, commentID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// List devuelve los comentarios de una cápsula que el usuario puede leer.
func (s *Service) List(ctx context.Context, capsuleID int, userUID, siteRole string) ([]*models.CommentView, error) {
	if _, err := s.readableOpened(ctx, capsuleID, userUID, siteRole); err != nil {
		return nil, err
	}
	return s.repo.ListCommentsByCapsule(ctx, capsuleID)
}

// readableOpened carga la cápsula y comprueba que está abierta y que el
// solicitante pasa la puerta de lectura.
func (s *Service) readableOpened(ctx context.Context, capsuleID int, userUID, siteRole string) (*models.Capsule, error) {
	c, err := s.repo.ReadCapsule(ctx, capsuleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCapsuleNotFound
		}
		return nil, err
	}

	req := access.Requester{UID: userUID, SiteRole: siteRole}
	if userUID != "" {
		role, err := s.repo.GetRecipientRole(ctx, userUID, capsuleID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		req.RecipientRole = role

		planName, err := s.plans.GetPlan(ctx, userUID)
		if err != nil {
			return nil, err
		}
		req.Plan = planName
	}

	now := time.Now().UTC()
	if err := access.CanRead(now, c, req); err != nil {
		return nil, err
	}
	if !c.Opened(now) {
		// El creador puede ver su cápsula cerrada, pero los comentarios
		// solo existen tras la apertura.
		return nil, access.ErrNotYetOpen
	}
	return c, nil
}

// ownComment carga un comentario y comprueba su autoría.
func (s *Service) ownComment(ctx context.Context, commentID int, userUID string) (*models.Comment, error) {
	c, err := s.repo.ReadComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if c.UserUID != userUID {
		return nil, ErrNotAuthor
	}
	return c, nil
}

// notifyCreator crea el aviso para el creador de la cápsula. Un fallo al
// guardarlo no interrumpe la operación principal.
func (s *Service) notifyCreator(ctx context.Context, c *models.Capsule, actorUID, format string) {
	actor, err := s.repo.GetUserByUID(ctx, actorUID)
	actorName := actorUID
	if err == nil {
		actorName = actor.Username
	}

	capsuleID := c.ID
	if _, err := s.repo.CreateNotification(ctx, models.Notification{
		UserUID:   c.CreatorUID,
		CapsuleID: &capsuleID,
		Message:   fmt.Sprintf(format, c.Title, actorName),
	}); err != nil {
		s.log.Warn("failed to create notification",
			slog.Int("capsule_id", c.ID), slog.Any("err", err))
	}
}
