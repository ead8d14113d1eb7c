package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lromnav497/pardespue/internal/models"
)

// CreateComment inserta un comentario y devuelve su ID.
func (s *Storage) CreateComment(ctx context.Context, c models.Comment) (int, error) {
	const op = "storage.CreateComment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO comments (capsule_id, user_uid, text, creation_date)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query, c.CapsuleID, c.UserUID, c.Text, c.CreationDate).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadComment devuelve un comentario por su ID o ErrNotFound.
func (s *Storage) ReadComment(ctx context.Context, id int) (*models.Comment, error) {
	const op = "storage.ReadComment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, capsule_id, user_uid, text, creation_date
			  FROM comments WHERE id = $1`
	var c models.Comment
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.CapsuleID, &c.UserUID, &c.Text, &c.CreationDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// ListCommentsByCapsule devuelve los comentarios de una cápsula con el
// nombre del autor, los más recientes primero.
func (s *Storage) ListCommentsByCapsule(ctx context.Context, capsuleID int) ([]*models.CommentView, error) {
	const op = "storage.ListCommentsByCapsule"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT cm.id, cm.capsule_id, cm.user_uid, cm.text, cm.creation_date, u.username
			  FROM comments cm
			  JOIN users u ON u.uid = cm.user_uid
			  WHERE cm.capsule_id = $1
			  ORDER BY cm.creation_date DESC`
	rows, err := s.DB.QueryContext(ctx, query, capsuleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.CommentView
	for rows.Next() {
		var v models.CommentView
		if err := rows.Scan(&v.ID, &v.CapsuleID, &v.UserUID, &v.Text,
			&v.CreationDate, &v.AuthorUsername); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateComment cambia el texto de un comentario y devuelve las filas
// modificadas.
func (s *Storage) UpdateComment(ctx context.Context, id int, text string) (int, error) {
	const op = "storage.UpdateComment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE comments SET text = $1 WHERE id = $2`, text, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// DeleteComment elimina un comentario y devuelve las filas borradas.
func (s *Storage) DeleteComment(ctx context.Context, id int) (int, error) {
	const op = "storage.DeleteComment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
