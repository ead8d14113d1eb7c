package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lromnav497/pardespue/internal/models"
)

// TestDataFactory contiene métodos para crear datos de prueba
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory crea una nueva fábrica de datos de prueba
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser crea un usuario de prueba
func (f *TestDataFactory) CreateUser(t *testing.T, userUID, username, email, passwordHash, role string) {
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, username, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)`,
		userUID, username, email, passwordHash, role)
	require.NoError(t, err)
}

// CreateCapsule crea una cápsula de prueba y devuelve su ID. La fecha de
// creación se fija un día antes de openingDate para respetar el CHECK del
// esquema.
func (f *TestDataFactory) CreateCapsule(t *testing.T, title, privacy, creatorUID string,
	openingDate time.Time, categoryID int) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO capsules
		(title, description, creation_date, opening_date, privacy, creator_uid, tags, category_id)
		VALUES ($1, '', $2, $3, $4, $5, '', $6) RETURNING id`,
		title, openingDate.AddDate(0, 0, -1), openingDate, privacy, creatorUID, categoryID).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateRecipient registra un destinatario de prueba
func (f *TestDataFactory) CreateRecipient(t *testing.T, userUID string, capsuleID int, role string) {
	_, err := f.storage.DB.Exec(`INSERT INTO recipients (user_uid, capsule_id, role)
		VALUES ($1, $2, $3)`,
		userUID, capsuleID, role)
	require.NoError(t, err)
}

// CreateContent crea un contenido de prueba y devuelve su ID
func (f *TestDataFactory) CreateContent(t *testing.T, capsuleID int, contentType, path string) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO contents (type, path, capsule_id)
		VALUES ($1, $2, $3) RETURNING id`,
		contentType, path, capsuleID).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateComment crea un comentario de prueba y devuelve su ID
func (f *TestDataFactory) CreateComment(t *testing.T, capsuleID int, userUID, text string) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO comments (capsule_id, user_uid, text)
		VALUES ($1, $2, $3) RETURNING id`,
		capsuleID, userUID, text).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateLike registra un "me gusta" de prueba
func (f *TestDataFactory) CreateLike(t *testing.T, userUID string, capsuleID int) {
	_, err := f.storage.DB.Exec(`INSERT INTO likes (user_uid, capsule_id) VALUES ($1, $2)`,
		userUID, capsuleID)
	require.NoError(t, err)
}

// CreateNotification crea una notificación de prueba y devuelve su ID
func (f *TestDataFactory) CreateNotification(t *testing.T, userUID string, capsuleID *int, message string) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO notifications (user_uid, capsule_id, message)
		VALUES ($1, $2, $3) RETURNING id`,
		userUID, capsuleID, message).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateSubscription crea una suscripción de prueba y devuelve su ID
func (f *TestDataFactory) CreateSubscription(t *testing.T, userUID, plan string,
	endDate time.Time, status string) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO subscriptions (user_uid, plan, end_date, status)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		userUID, plan, endDate, status).Scan(&id)
	require.NoError(t, err)
	return id
}

// TestVerification contiene comprobaciones comunes sobre el estado de la BD
type TestVerification struct {
	storage *Storage
}

// NewTestVerification crea un nuevo objeto de verificación
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifyCapsuleExists comprueba que la cápsula existe en la BD
func (v *TestVerification) VerifyCapsuleExists(t *testing.T, capsuleID int) {
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM capsules WHERE id = $1", capsuleID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

// VerifyCapsuleDeleted comprueba que la cápsula y todas sus filas
// dependientes desaparecieron de la BD
func (v *TestVerification) VerifyCapsuleDeleted(t *testing.T, capsuleID int) {
	tables := []string{"capsules", "contents", "recipients", "comments", "likes", "notifications"}
	for _, table := range tables {
		column := "capsule_id"
		if table == "capsules" {
			column = "id"
		}
		var count int
		err := v.storage.DB.QueryRow(
			fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = $1", table, column), capsuleID).Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 0, count, "leftover rows in %s", table)
	}
}

// VerifyRecipientRole comprueba el rol de un destinatario y que solo hay
// una fila para el par (usuario, cápsula)
func (v *TestVerification) VerifyRecipientRole(t *testing.T, userUID string, capsuleID int, expectedRole string) {
	var count int
	var role string
	err := v.storage.DB.QueryRow(
		"SELECT COUNT(*), MIN(role) FROM recipients WHERE user_uid = $1 AND capsule_id = $2",
		userUID, capsuleID).Scan(&count, &role)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, expectedRole, role)
}

// VerifyUserExists comprueba que el usuario existe en la BD
func (v *TestVerification) VerifyUserExists(t *testing.T, userUID string) {
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM users WHERE uid = $1", userUID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

// GetTestUserData devuelve datos estándar de un usuario de prueba
func GetTestUserData() models.User {
	return models.User{
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
		Role:         "user",
	}
}

// setupTestDatabase levanta un contenedor PostgreSQL y aplica el esquema
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute)),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	// Reintentamos la conexión hasta que el contenedor acepte sesiones
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			err = storage.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	// Mismo esquema que migrations/000001_init.up.sql
	_, err = storage.DB.Exec(`
        CREATE EXTENSION IF NOT EXISTS "pgcrypto";

        CREATE TABLE users (
            uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            email TEXT NOT NULL UNIQUE,
            username TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
            verified BOOLEAN NOT NULL DEFAULT FALSE,
            banned BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE categories (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL UNIQUE
        );

        CREATE TABLE capsules (
            id SERIAL PRIMARY KEY,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            creation_date TIMESTAMPTZ NOT NULL DEFAULT now(),
            opening_date TIMESTAMPTZ NOT NULL,
            privacy TEXT NOT NULL CHECK (privacy IN ('private', 'group', 'public')),
            password_hash TEXT,
            creator_uid UUID NOT NULL REFERENCES users(uid),
            tags TEXT NOT NULL DEFAULT '',
            category_id INTEGER NOT NULL REFERENCES categories(id),
            cover_content_id INTEGER,
            likes INTEGER NOT NULL DEFAULT 0,
            views INTEGER NOT NULL DEFAULT 0,
            opening_notified BOOLEAN NOT NULL DEFAULT FALSE,
            CHECK (opening_date > creation_date)
        );

        CREATE TABLE contents (
            id SERIAL PRIMARY KEY,
            type TEXT NOT NULL CHECK (type IN ('image', 'video', 'audio', 'file')),
            path TEXT NOT NULL,
            creation_date TIMESTAMPTZ NOT NULL DEFAULT now(),
            capsule_id INTEGER NOT NULL REFERENCES capsules(id)
        );

        ALTER TABLE capsules
            ADD CONSTRAINT capsules_cover_content_fk
            FOREIGN KEY (cover_content_id) REFERENCES contents(id);

        CREATE TABLE recipients (
            user_uid UUID NOT NULL REFERENCES users(uid),
            capsule_id INTEGER NOT NULL REFERENCES capsules(id),
            role TEXT NOT NULL CHECK (role IN ('reader', 'collaborator')),
            UNIQUE (user_uid, capsule_id)
        );

        CREATE TABLE subscriptions (
            id SERIAL PRIMARY KEY,
            user_uid UUID NOT NULL REFERENCES users(uid),
            plan TEXT NOT NULL CHECK (plan IN ('basico', 'premium')),
            start_date TIMESTAMPTZ NOT NULL DEFAULT now(),
            end_date TIMESTAMPTZ NOT NULL,
            status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive', 'canceled'))
        );

        CREATE TABLE transactions (
            id SERIAL PRIMARY KEY,
            user_uid UUID NOT NULL REFERENCES users(uid),
            subscription_id INTEGER REFERENCES subscriptions(id),
            amount NUMERIC(10, 2) NOT NULL,
            provider_id TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'succeeded', 'failed')),
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE comments (
            id SERIAL PRIMARY KEY,
            capsule_id INTEGER NOT NULL REFERENCES capsules(id),
            user_uid UUID NOT NULL REFERENCES users(uid),
            text TEXT NOT NULL,
            creation_date TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE likes (
            user_uid UUID NOT NULL REFERENCES users(uid),
            capsule_id INTEGER NOT NULL REFERENCES capsules(id),
            UNIQUE (user_uid, capsule_id)
        );

        CREATE TABLE notifications (
            id SERIAL PRIMARY KEY,
            user_uid UUID NOT NULL REFERENCES users(uid),
            capsule_id INTEGER REFERENCES capsules(id),
            message TEXT NOT NULL,
            read BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        INSERT INTO categories (name) VALUES
            ('Recuerdos'), ('Familia'), ('Viajes'), ('Amistad'), ('Trabajo'), ('Otros');
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if postgresContainer != nil {
			_ = postgresContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
