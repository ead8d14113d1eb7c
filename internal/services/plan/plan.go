// Package plan implementa el resolutor de plan de suscripción: qué plan
// rige para un usuario y si su plan le permite crear otra cápsula.
package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lromnav497/pardespue/internal/models"
	"github.com/lromnav497/pardespue/internal/storage/repository"
)

// BasicoCapsuleLimit es el techo de cápsulas del plan Básico.
const BasicoCapsuleLimit = 15

// ErrNoActivePlan indica que el usuario no tiene suscripción de pago activa.
var ErrNoActivePlan = errors.New("no active paid subscription")

// Repository define los métodos de almacenamiento que necesita el
// resolutor de plan.
type Repository interface {
	// GetActiveSubscription devuelve la suscripción activa más reciente.
	GetActiveSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
	// CountCapsulesByUser cuenta las cápsulas que posee el usuario.
	CountCapsulesByUser(ctx context.Context, userUID string) (int, error)
	// ChangePlan desactiva las suscripciones previas e inserta la nueva.
	ChangePlan(ctx context.Context, sub models.Subscription) (int, error)
	// CancelSubscription cancela la suscripción activa y devuelve las filas afectadas.
	CancelSubscription(ctx context.Context, userUID string) (int, error)
}

// Service resuelve el plan vigente de cada usuario y aplica el límite
// de cápsulas del plan Básico.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New crea un Service con el repositorio y el logger indicados.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetPlan devuelve el plan vigente del usuario: el de la suscripción
// activa más reciente, o Básico si no hay ninguna.
func (s *Service) GetPlan(ctx context.Context, userUID string) (string, error) {
	sub, err := s.repo.GetActiveSubscription(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.PlanBasico, nil
		}
		return "", err
	}
	return sub.Plan, nil
}

// Status devuelve el plan vigente junto con su fecha de fin y el número
// de cápsulas que posee el usuario.
func (s *Service) Status(ctx context.Context, userUID string) (*models.PlanStatus, error) {
	count, err := s.repo.CountCapsulesByUser(ctx, userUID)
	if err != nil {
		return nil, err
	}

	sub, err := s.repo.GetActiveSubscription(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &models.PlanStatus{Plan: models.PlanBasico, Capsules: count}, nil
		}
		return nil, err
	}
	return &models.PlanStatus{Plan: sub.Plan, EndDate: &sub.EndDate, Capsules: count}, nil
}

// CanCreateCapsule comprueba el techo de cápsulas: Básico deniega al
// llegar a BasicoCapsuleLimit cápsulas poseídas; Premium no tiene tope.
// Es una lectura pura, nunca inserta nada.
func (s *Service) CanCreateCapsule(ctx context.Context, userUID string) (*models.CreateCheck, error) {
	planName, err := s.GetPlan(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if planName == models.PlanPremium {
		return &models.CreateCheck{Allowed: true}, nil
	}

	count, err := s.repo.CountCapsulesByUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if count >= BasicoCapsuleLimit {
		return &models.CreateCheck{
			Allowed: false,
			Reason:  fmt.Sprintf("has alcanzado el límite de %d cápsulas del plan Básico", BasicoCapsuleLimit),
		}, nil
	}
	return &models.CreateCheck{Allowed: true}, nil
}

// ActivatePlan desactiva las suscripciones previas del usuario y da de
// alta la nueva como activa. El plan Premium dura un mes; el Básico se
// registra sin coste con la misma vigencia para conservar el historial.
func (s *Service) ActivatePlan(ctx context.Context, userUID, planName string) (int, error) {
	now := time.Now().UTC()
	sub := models.Subscription{
		UserUID:   userUID,
		Plan:      planName,
		StartDate: now,
		EndDate:   now.AddDate(0, 1, 0),
		Status:    models.SubscriptionActive,
	}
	id, err := s.repo.ChangePlan(ctx, sub)
	if err != nil {
		return 0, err
	}
	s.log.Info("plan activated",
		slog.String("user_uid", userUID), slog.String("plan", planName), slog.Int("subscription_id", id))
	return id, nil
}

// Cancel cancela la suscripción Premium activa del usuario, que vuelve al
// plan Básico. Sin suscripción activa devuelve ErrNoActivePlan.
func (s *Service) Cancel(ctx context.Context, userUID string) error {
	n, err := s.repo.CancelSubscription(ctx, userUID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoActivePlan
	}
	s.log.Info("subscription canceled", slog.String("user_uid", userUID))
	return nil
}
