package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lromnav497/pardespue/internal/models"
)

// GetActiveSubscription devuelve la suscripción activa más reciente del
// usuario (fecha de fin descendente) o ErrNotFound si no hay ninguna.
func (s *Storage) GetActiveSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, plan, start_date, end_date, status
			  FROM subscriptions
			  WHERE user_uid = $1 AND status = 'active'
			  ORDER BY end_date DESC
			  LIMIT 1`
	var sub models.Subscription
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(
		&sub.ID, &sub.UserUID, &sub.Plan, &sub.StartDate, &sub.EndDate, &sub.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// ChangePlan desactiva las suscripciones activas previas del usuario e
// inserta la fila activa nueva, todo en una transacción. Devuelve el ID
// de la suscripción creada.
func (s *Storage) ChangePlan(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.ChangePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`UPDATE subscriptions SET status = 'inactive'
		 WHERE user_uid = $1 AND status = 'active'`, sub.UserUID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var newID int
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO subscriptions (user_uid, plan, start_date, end_date, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		sub.UserUID, sub.Plan, sub.StartDate, sub.EndDate, sub.Status).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CancelSubscription marca como cancelada la suscripción activa del
// usuario y devuelve las filas modificadas.
func (s *Storage) CancelSubscription(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CancelSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE subscriptions SET status = 'canceled'
		 WHERE user_uid = $1 AND status = 'active'`, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
