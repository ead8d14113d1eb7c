// Package repository implementa el almacenamiento sobre PostgreSQL para
// cápsulas, contenidos, destinatarios, usuarios, suscripciones,
// comentarios, categorías, notificaciones y transacciones.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	// Registro del driver pgx para database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Storage encapsula la conexión con PostgreSQL e implementa los métodos
// de acceso a datos del dominio.
type Storage struct {
	DB *sql.DB
}

// New abre la conexión con PostgreSQL y comprueba que responde.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady comprueba que el esquema está migrado.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'capsules'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table capsules missing or query error: %w", err)
	}
	return nil
}
