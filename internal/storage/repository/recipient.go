package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lromnav497/pardespue/internal/models"
)

// AddRecipient da de alta (o actualiza) el rol de un usuario en una
// cápsula grupal. La restricción UNIQUE (user_uid, capsule_id) garantiza
// como máximo un rol por par; repetir el alta solo cambia el rol.
func (s *Storage) AddRecipient(ctx context.Context, r models.Recipient) error {
	const op = "storage.AddRecipient"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO recipients (user_uid, capsule_id, role)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (user_uid, capsule_id) DO UPDATE SET role = EXCLUDED.role`
	if _, err := s.DB.ExecContext(ctx, query, r.UserUID, r.CapsuleID, r.Role); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveRecipient quita a un usuario de una cápsula y devuelve las
// filas borradas.
func (s *Storage) RemoveRecipient(ctx context.Context, userUID string, capsuleID int) (int, error) {
	const op = "storage.RemoveRecipient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM recipients WHERE user_uid = $1 AND capsule_id = $2`, userUID, capsuleID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveAllRecipientsByCapsule borra todos los destinatarios de una
// cápsula. Se usa cuando la privacidad deja de ser grupal.
func (s *Storage) RemoveAllRecipientsByCapsule(ctx context.Context, capsuleID int) error {
	const op = "storage.RemoveAllRecipientsByCapsule"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx,
		`DELETE FROM recipients WHERE capsule_id = $1`, capsuleID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetRecipientRole devuelve el rol de un usuario en una cápsula, o
// ErrNotFound si no es destinatario.
func (s *Storage) GetRecipientRole(ctx context.Context, userUID string, capsuleID int) (string, error) {
	const op = "storage.GetRecipientRole"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var role string
	query := `SELECT role FROM recipients WHERE user_uid = $1 AND capsule_id = $2`
	if err := s.DB.QueryRowContext(ctx, query, userUID, capsuleID).Scan(&role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return role, nil
}

// ListRecipientsByCapsule devuelve los destinatarios de una cápsula.
func (s *Storage) ListRecipientsByCapsule(ctx context.Context, capsuleID int) ([]*models.Recipient, error) {
	const op = "storage.ListRecipientsByCapsule"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, capsule_id, role
			  FROM recipients
			  WHERE capsule_id = $1
			  ORDER BY user_uid`
	rows, err := s.DB.QueryContext(ctx, query, capsuleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Recipient
	for rows.Next() {
		var r models.Recipient
		if err := rows.Scan(&r.UserUID, &r.CapsuleID, &r.Role); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListRecipientUIDsByCapsule devuelve solo los UID de los destinatarios.
// Lo usa el sender de notificaciones de apertura.
func (s *Storage) ListRecipientUIDsByCapsule(ctx context.Context, capsuleID int) ([]string, error) {
	const op = "storage.ListRecipientUIDsByCapsule"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT user_uid FROM recipients WHERE capsule_id = $1`, capsuleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, uid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListSharedWithUser devuelve las cápsulas grupales compartidas con un
// usuario, con su rol y si ya están disponibles para lectura.
func (s *Storage) ListSharedWithUser(ctx context.Context, userUID string) ([]*models.SharedCapsule, error) {
	const op = "storage.ListSharedWithUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.id, c.title, c.description, c.creation_date, c.opening_date, c.privacy,
			      c.creator_uid, c.tags, c.category_id, c.cover_content_id, c.likes, c.views,
			      r.role, c.opening_date <= now() AS available
			  FROM recipients r
			  JOIN capsules c ON c.id = r.capsule_id
			  WHERE r.user_uid = $1
			  ORDER BY c.opening_date DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SharedCapsule
	for rows.Next() {
		var sc models.SharedCapsule
		if err := rows.Scan(&sc.ID, &sc.Title, &sc.Description, &sc.CreationDate, &sc.OpeningDate,
			&sc.Privacy, &sc.CreatorUID, &sc.Tags, &sc.CategoryID, &sc.CoverContentID,
			&sc.Likes, &sc.Views, &sc.Role, &sc.Available); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
