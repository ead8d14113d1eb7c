package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lromnav497/pardespue/internal/models"
)

// CreateContent registra un contenido de una cápsula y devuelve su ID.
func (s *Storage) CreateContent(ctx context.Context, c models.Content) (int, error) {
	const op = "storage.CreateContent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO contents (type, path, creation_date, capsule_id)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query, c.Type, c.Path, c.CreationDate, c.CapsuleID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadContent devuelve un contenido por su ID o ErrNotFound.
func (s *Storage) ReadContent(ctx context.Context, id int) (*models.Content, error) {
	const op = "storage.ReadContent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, type, path, creation_date, capsule_id
			  FROM contents WHERE id = $1`
	var c models.Content
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Type, &c.Path, &c.CreationDate, &c.CapsuleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// ListContentsByCapsule devuelve los contenidos de una cápsula por orden
// de registro.
func (s *Storage) ListContentsByCapsule(ctx context.Context, capsuleID int) ([]*models.Content, error) {
	const op = "storage.ListContentsByCapsule"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, type, path, creation_date, capsule_id
			  FROM contents
			  WHERE capsule_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, capsuleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Content
	for rows.Next() {
		var c models.Content
		if err := rows.Scan(&c.ID, &c.Type, &c.Path, &c.CreationDate, &c.CapsuleID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteContent elimina un contenido por su ID y devuelve las filas borradas.
func (s *Storage) DeleteContent(ctx context.Context, id int) (int, error) {
	const op = "storage.DeleteContent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM contents WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
