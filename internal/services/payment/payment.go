// Package payment contiene la lógica de cobro del plan Premium: el
// arranque de la sesión de pago con el proveedor externo y el webhook
// que liquida la transacción y activa la suscripción.
package payment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lromnav497/pardespue/internal/config"
	"github.com/lromnav497/pardespue/internal/models"
	"github.com/lromnav497/pardespue/internal/paymentprovider"
)

// Errores terminales del servicio de pagos.
var (
	// ErrAlreadyPremium el usuario ya tiene el plan Premium activo.
	ErrAlreadyPremium = errors.New("user already has premium plan")
	// ErrUnknownTransaction el webhook referencia una sesión desconocida.
	ErrUnknownTransaction = errors.New("unknown transaction")
)

// Repository define los métodos de almacenamiento que usa el servicio.
type Repository interface {
	CreateTransaction(ctx context.Context, t models.Transaction) (int, error)
	FindTransactionByProviderID(ctx context.Context, providerID string) (*models.Transaction, error)
	SettleTransaction(ctx context.Context, id int, subscriptionID *int, status string) error
	CreateNotification(ctx context.Context, n models.Notification) (int, error)
}

// PlanResolver resuelve y activa planes de suscripción.
type PlanResolver interface {
	GetPlan(ctx context.Context, userUID string) (string, error)
	ActivatePlan(ctx context.Context, userUID, planName string) (int, error)
}

// Provider crea sesiones de pago en el proveedor externo.
type Provider interface {
	CreatePayment(ctx context.Context, req paymentprovider.CreatePaymentRequest) (*paymentprovider.CreatePaymentResponse, error)
}

// Service implementa el cobro del plan Premium.
type Service struct {
	repo     Repository
	plans    PlanResolver
	provider Provider
	cfg      config.Payment
	log      *slog.Logger
}

// New crea un Service de pagos.
func New(repo Repository, plans PlanResolver, provider Provider, cfg config.Payment, log *slog.Logger) *Service {
	return &Service{repo: repo, plans: plans, provider: provider, cfg: cfg, log: log}
}

// CheckoutResult es el resultado de arrancar una sesión de pago.
type CheckoutResult struct {
	TransactionID   int    `json:"transaction_id"`   // Transacción pendiente creada
	ConfirmationURL string `json:"confirmation_url"` // URL del proveedor para completar el pago
}

// Checkout arranca el cobro del plan Premium: crea la sesión en el
// proveedor y registra la transacción pendiente. El alta del plan queda
// a la espera del webhook.
func (s *Service) Checkout(ctx context.Context, userUID string) (*CheckoutResult, error) {
	current, err := s.plans.GetPlan(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if current == models.PlanPremium {
		return nil, ErrAlreadyPremium
	}

	resp, err := s.provider.CreatePayment(ctx, paymentprovider.CreatePaymentRequest{
		Amount: paymentprovider.Amount{
			Value:    paymentprovider.FormatAmount(s.cfg.PremiumPrice),
			Currency: "EUR",
		},
		Capture: true,
		Confirmation: paymentprovider.Confirmation{
			Type:      "redirect",
			ReturnURL: s.cfg.ReturnURL,
		},
		Description: "Plan Premium de ParDespué (1 mes)",
		Metadata:    map[string]string{"user_uid": userUID},
	})
	if err != nil {
		return nil, err
	}

	id, err := s.repo.CreateTransaction(ctx, models.Transaction{
		UserUID:    userUID,
		Amount:     s.cfg.PremiumPrice,
		ProviderID: resp.ID,
		Status:     models.TransactionPending,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("checkout started",
		slog.String("user_uid", userUID),
		slog.Int("transaction_id", id),
		slog.String("provider_id", resp.ID))
	return &CheckoutResult{
		TransactionID:   id,
		ConfirmationURL: resp.Confirmation.ConfirmationURL,
	}, nil
}

// HandleWebhook procesa la notificación del proveedor. Un pago
// completado activa el plan Premium y liquida la transacción; uno
// cancelado la marca como fallida. Los reenvíos de una transacción ya
// liquidada se ignoran.
func (s *Service) HandleWebhook(ctx context.Context, event paymentprovider.WebhookEvent) error {
	tx, err := s.repo.FindTransactionByProviderID(ctx, event.Object.ID)
	if err != nil {
		return ErrUnknownTransaction
	}
	if tx.Status != models.TransactionPending {
		s.log.Info("webhook for settled transaction ignored",
			slog.Int("transaction_id", tx.ID), slog.String("status", tx.Status))
		return nil
	}

	switch event.Event {
	case paymentprovider.EventPaymentSucceeded:
		subID, err := s.plans.ActivatePlan(ctx, tx.UserUID, models.PlanPremium)
		if err != nil {
			return err
		}
		if err := s.repo.SettleTransaction(ctx, tx.ID, &subID, models.TransactionSucceeded); err != nil {
			return err
		}
		if _, err := s.repo.CreateNotification(ctx, models.Notification{
			UserUID: tx.UserUID,
			Message: "Tu plan Premium ya está activo. ¡Disfrútalo!",
		}); err != nil {
			s.log.Warn("failed to create notification",
				slog.String("user_uid", tx.UserUID), slog.Any("err", err))
		}
		s.log.Info("premium activated",
			slog.String("user_uid", tx.UserUID), slog.Int("subscription_id", subID))
		return nil

	case paymentprovider.EventPaymentCanceled:
		if err := s.repo.SettleTransaction(ctx, tx.ID, nil, models.TransactionFailed); err != nil {
			return err
		}
		s.log.Info("payment canceled", slog.Int("transaction_id", tx.ID))
		return nil

	default:
		s.log.Warn("unhandled webhook event", slog.String("event", event.Event))
		return nil
	}
}
