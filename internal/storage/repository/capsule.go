package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lromnav497/pardespue/internal/models"
)

// ErrNotFound lo devuelven las lecturas cuando la fila no existe.
var ErrNotFound = errors.New("not found")

// CreateCapsule inserta una cápsula nueva y devuelve su ID.
func (s *Storage) CreateCapsule(ctx context.Context, c models.Capsule) (int, error) {
	const op = "storage.CreateCapsule"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO capsules (title, description, creation_date, opening_date, privacy,
			      password_hash, creator_uid, tags, category_id, cover_content_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		c.Title, c.Description, c.CreationDate, c.OpeningDate, c.Privacy,
		c.PasswordHash, c.CreatorUID, c.Tags, c.CategoryID, c.CoverContentID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadCapsule devuelve una cápsula por su ID o ErrNotFound.
func (s *Storage) ReadCapsule(ctx context.Context, id int) (*models.Capsule, error) {
	const op = "storage.ReadCapsule"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, creation_date, opening_date, privacy,
			      password_hash, creator_uid, tags, category_id, cover_content_id,
			      likes, views, opening_notified
			  FROM capsules WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var c models.Capsule
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.CreationDate, &c.OpeningDate,
		&c.Privacy, &c.PasswordHash, &c.CreatorUID, &c.Tags, &c.CategoryID,
		&c.CoverContentID, &c.Likes, &c.Views, &c.OpeningNotified); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// UpdateCapsule actualiza los campos editables de una cápsula y devuelve
// el número de filas modificadas.
func (s *Storage) UpdateCapsule(ctx context.Context, c models.Capsule, id int) (int, error) {
	const op = "storage.UpdateCapsule"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE capsules
			  SET title = $1, description = $2, opening_date = $3, privacy = $4,
			      password_hash = $5, tags = $6, category_id = $7, cover_content_id = $8
			  WHERE id = $9`
	result, err := s.DB.ExecContext(ctx, query,
		c.Title, c.Description, c.OpeningDate, c.Privacy,
		c.PasswordHash, c.Tags, c.CategoryID, c.CoverContentID, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListCapsulesByUser devuelve las cápsulas del usuario, las más
// recientes primero.
func (s *Storage) ListCapsulesByUser(ctx context.Context, userUID string) ([]*models.Capsule, error) {
	const op = "storage.ListCapsulesByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, creation_date, opening_date, privacy,
			      password_hash, creator_uid, tags, category_id, cover_content_id,
			      likes, views, opening_notified
			  FROM capsules
			  WHERE creator_uid = $1
			  ORDER BY creation_date DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Capsule
	for rows.Next() {
		var c models.Capsule
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.CreationDate, &c.OpeningDate,
			&c.Privacy, &c.PasswordHash, &c.CreatorUID, &c.Tags, &c.CategoryID,
			&c.CoverContentID, &c.Likes, &c.Views, &c.OpeningNotified); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountCapsulesByUser cuenta las cápsulas que posee un usuario.
func (s *Storage) CountCapsulesByUser(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CountCapsulesByUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM capsules WHERE creator_uid = $1`
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// publicFilter es el WHERE compartido entre el listado público y su
// consulta de recuento. $1 es la categoría (o NULL) y $2 el texto de
// búsqueda (o NULL).
const publicFilter = `
		  FROM capsules c
		  JOIN users u ON u.uid = c.creator_uid
		  JOIN categories cat ON cat.id = c.category_id
		  WHERE c.privacy = 'public'
		    AND c.opening_date <= now()
		    AND ($1::text IS NULL OR cat.name = $1)
		    AND ($2::text IS NULL
		         OR c.title ILIKE '%' || $2 || '%'
		         OR c.tags ILIKE '%' || $2 || '%'
		         OR u.username ILIKE '%' || $2 || '%'
		         OR u.email ILIKE '%' || $2 || '%'
		         OR cat.name ILIKE '%' || $2 || '%'
		         OR to_char(c.opening_date, 'YYYY-MM-DD') ILIKE '%' || $2 || '%')`

// ListPublicCapsules devuelve una página del listado público de
// cápsulas abiertas, ordenadas por fecha de apertura descendente.
// category y search son filtros opcionales (nil para omitir).
func (s *Storage) ListPublicCapsules(ctx context.Context, category, search *string, limit, offset int) ([]*models.CapsuleView, error) {
	const op = "storage.ListPublicCapsules"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.id, c.title, c.description, c.creation_date, c.opening_date, c.privacy,
			      c.creator_uid, c.tags, c.category_id, c.cover_content_id, c.likes, c.views,
			      u.username, u.email, cat.name` + publicFilter + `
		  ORDER BY c.opening_date DESC
		  LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, category, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.CapsuleView
	for rows.Next() {
		var v models.CapsuleView
		if err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.CreationDate, &v.OpeningDate,
			&v.Privacy, &v.CreatorUID, &v.Tags, &v.CategoryID, &v.CoverContentID,
			&v.Likes, &v.Views, &v.AuthorUsername, &v.AuthorEmail, &v.CategoryName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountPublicCapsules cuenta las filas del listado público bajo el mismo
// filtro que ListPublicCapsules.
func (s *Storage) CountPublicCapsules(ctx context.Context, category, search *string) (int, error) {
	const op = "storage.CountPublicCapsules"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(DISTINCT c.id)` + publicFilter
	if err := s.DB.QueryRowContext(ctx, query, category, search).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// DeleteCapsule elimina una cápsula y todas sus filas dependientes
// (notificaciones, likes, comentarios, contenidos y destinatarios) en
// una única transacción. Devuelve el número de cápsulas borradas.
func (s *Storage) DeleteCapsule(ctx context.Context, id int) (int, error) {
	const op = "storage.DeleteCapsule"
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

	// El orden respeta las claves foráneas hacia capsules.
	dependents := []string{
		`DELETE FROM notifications WHERE capsule_id = $1`,
		`DELETE FROM likes WHERE capsule_id = $1`,
		`DELETE FROM comments WHERE capsule_id = $1`,
		`UPDATE capsules SET cover_content_id = NULL WHERE id = $1`,
		`DELETE FROM contents WHERE capsule_id = $1`,
		`DELETE FROM recipients WHERE capsule_id = $1`,
	}
	for _, q := range dependents {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM capsules WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// IncrementViews suma una visualización a la cápsula.
func (s *Storage) IncrementViews(ctx context.Context, id int) error {
	const op = "storage.IncrementViews"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE capsules SET views = views + 1 WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindCapsulesOpeningToday devuelve las cápsulas cuya fecha de apertura
// ya llegó y que aún no fueron anunciadas, con los datos del dueño.
func (s *Storage) FindCapsulesOpeningToday(ctx context.Context) ([]*models.CapsuleOpenedEvent, error) {
	const op = "storage.FindCapsulesOpeningToday"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.id, c.title, c.opening_date, u.uid, u.email, u.username
			  FROM capsules c
			  JOIN users u ON u.uid = c.creator_uid
			  WHERE c.opening_date <= now()
			    AND c.opening_notified = false`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.CapsuleOpenedEvent
	for rows.Next() {
		var ev models.CapsuleOpenedEvent
		if err := rows.Scan(&ev.CapsuleID, &ev.Title, &ev.OpeningDate,
			&ev.OwnerUID, &ev.OwnerEmail, &ev.OwnerName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkOpeningNotified deja constancia de que la apertura ya fue anunciada.
func (s *Storage) MarkOpeningNotified(ctx context.Context, id int) error {
	const op = "storage.MarkOpeningNotified"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE capsules SET opening_notified = true WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
