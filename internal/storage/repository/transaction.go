package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lromnav497/pardespue/internal/models"
)

// CreateTransaction registra un cobro pendiente y devuelve su ID.
func (s *Storage) CreateTransaction(ctx context.Context, t models.Transaction) (int, error) {
	const op = "storage.CreateTransaction"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO transactions (user_uid, subscription_id, amount, provider_id, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		t.UserUID, t.SubscriptionID, t.Amount, t.ProviderID, t.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// FindTransactionByProviderID localiza un cobro por la referencia del
// proveedor de pagos, o ErrNotFound.
func (s *Storage) FindTransactionByProviderID(ctx context.Context, providerID string) (*models.Transaction, error) {
	const op = "storage.FindTransactionByProviderID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, subscription_id, amount, provider_id, status, created_at
			  FROM transactions
			  WHERE provider_id = $1`
	var t models.Transaction
	if err := s.DB.QueryRowContext(ctx, query, providerID).Scan(
		&t.ID, &t.UserUID, &t.SubscriptionID, &t.Amount, &t.ProviderID,
		&t.Status, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}

// SettleTransaction actualiza el estado de un cobro y lo enlaza con la
// suscripción que activó.
func (s *Storage) SettleTransaction(ctx context.Context, id int, subscriptionID *int, status string) error {
	const op = "storage.SettleTransaction"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx,
		`UPDATE transactions SET status = $1, subscription_id = $2 WHERE id = $3`,
		status, subscriptionID, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
