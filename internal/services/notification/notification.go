// Package notification expone la bandeja de avisos de un usuario.
package notification

import (
	"context"
	"errors"

	"github.com/lromnav497/pardespue/internal/models"
)

// ErrNotFound el aviso no existe o no pertenece al usuario.
var ErrNotFound = errors.New("notification not found")

// Repository define los métodos de almacenamiento que usa el servicio.
type Repository interface {
	ListNotificationsByUser(ctx context.Context, userUID string) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id int, userUID string) (int, error)
}

// Service implementa la bandeja de avisos.
type Service struct {
	repo Repository
}

// New crea un Service de notificaciones.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List devuelve los avisos del usuario, los más recientes primero.
func (s *Service) List(ctx context.Context, userUID string) ([]*models.Notification, error) {
	return s.repo.ListNotificationsByUser(ctx, userUID)
}

// MarkRead marca un aviso como leído. La condición de propiedad vive en
// la consulta, de modo que un aviso ajeno cuenta como inexistente.
func (s *Service) MarkRead(ctx context.Context, id int, userUID string) error {
	n, err := s.repo.MarkNotificationRead(ctx, id, userUID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
