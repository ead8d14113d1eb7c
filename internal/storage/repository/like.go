package repository

import (
	"context"
	"fmt"
)

// HasLike indica si el usuario ya dio "me gusta" a la cápsula.
func (s *Storage) HasLike(ctx context.Context, userUID string, capsuleID int) (bool, error) {
	const op = "storage.HasLike"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM likes WHERE user_uid = $1 AND capsule_id = $2)`
	if err := s.DB.QueryRowContext(ctx, query, userUID, capsuleID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// AddLike registra el "me gusta" y actualiza el contador de la cápsula
// en la misma transacción. El alta repetida no duplica gracias a la
// restricción UNIQUE.
func (s *Storage) AddLike(ctx context.Context, userUID string, capsuleID int) error {
	const op = "storage.AddLike"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO likes (user_uid, capsule_id) VALUES ($1, $2)
		 ON CONFLICT (user_uid, capsule_id) DO NOTHING`, userUID, capsuleID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if inserted > 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE capsules SET likes = likes + 1 WHERE id = $1`, capsuleID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveLike retira el "me gusta" y descuenta el contador en la misma
// transacción.
func (s *Storage) RemoveLike(ctx context.Context, userUID string, capsuleID int) error {
	const op = "storage.RemoveLike"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM likes WHERE user_uid = $1 AND capsule_id = $2`, userUID, capsuleID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if deleted > 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE capsules SET likes = GREATEST(likes - 1, 0) WHERE id = $1`, capsuleID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
