package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lromnav497/pardespue/internal/models"
)

func TestStorage_CreateCapsule(t *testing.T) {
	type args struct {
		ctx     context.Context
		capsule models.Capsule
	}

	creation := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	opening := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	userUID := "550e8400-e29b-41d4-a716-446655440000"

	tests := []struct {
		name    string
		args    args
		wantErr bool
	}{
		{
			name: "successful create capsule",
			args: args{
				ctx: context.Background(),
				capsule: models.Capsule{
					Title:        "Verano 2026",
					Description:  "Fotos del viaje",
					CreationDate: creation,
					OpeningDate:  opening,
					Privacy:      "private",
					CreatorUID:   userUID,
					Tags:         "playa,familia",
					CategoryID:   3,
				},
			},
			wantErr: false,
		},
		{
			name: "opening date before creation violates schema check",
			args: args{
				ctx: context.Background(),
				capsule: models.Capsule{
					Title:        "Imposible",
					CreationDate: opening,
					OpeningDate:  creation,
					Privacy:      "private",
					CreatorUID:   userUID,
					CategoryID:   3,
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			factory.CreateUser(t, userUID, "testuser", "test@example.com", "hashedpassword", "user")

			gotID, err := storage.CreateCapsule(tt.args.ctx, tt.args.capsule)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Positive(t, gotID)

			verification := NewTestVerification(storage)
			verification.VerifyCapsuleExists(t, gotID)
		})
	}
}

func TestStorage_ReadCapsule(t *testing.T) {
	opening := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		wantErr bool
		setup   func(t *testing.T, factory *TestDataFactory) int
	}{
		{
			name:    "successful read existing capsule",
			wantErr: false,
			setup: func(t *testing.T, factory *TestDataFactory) int {
				userUID := uuid.New().String()
				factory.CreateUser(t, userUID, "testuser", "test@example.com", "hashedpassword", "user")
				return factory.CreateCapsule(t, "Recuerdos", "private", userUID, opening, 1)
			},
		},
		{
			name:    "read non-existing capsule",
			wantErr: true,
			setup:   func(_ *testing.T, _ *TestDataFactory) int { return 9999 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			capsuleID := tt.setup(t, factory)

			got, err := storage.ReadCapsule(context.Background(), capsuleID)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrNotFound)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, capsuleID, got.ID)
			assert.Equal(t, "Recuerdos", got.Title)
			assert.Equal(t, "private", got.Privacy)
			assert.True(t, opening.Equal(got.OpeningDate))
		})
	}
}

func TestStorage_DeleteCapsule(t *testing.T) {
	opening := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name             string
		wantRowsAffected int
		setup            func(t *testing.T, factory *TestDataFactory) int
	}{
		{
			name:             "delete removes capsule and all dependent rows",
			wantRowsAffected: 1,
			setup: func(t *testing.T, factory *TestDataFactory) int {
				creatorUID := uuid.New().String()
				readerUID := uuid.New().String()
				factory.CreateUser(t, creatorUID, "creator", "creator@example.com", "hash", "user")
				factory.CreateUser(t, readerUID, "reader", "reader@example.com", "hash", "user")

				capsuleID := factory.CreateCapsule(t, "Grupo", "group", creatorUID, opening, 2)
				factory.CreateRecipient(t, readerUID, capsuleID, "reader")
				factory.CreateContent(t, capsuleID, "image", "capsules/1/foto.jpg")
				factory.CreateComment(t, capsuleID, readerUID, "qué recuerdos")
				factory.CreateLike(t, readerUID, capsuleID)
				factory.CreateNotification(t, readerUID, &capsuleID, "La cápsula Grupo ya está abierta")
				return capsuleID
			},
		},
		{
			name:             "delete non-existing capsule",
			wantRowsAffected: 0,
			setup:            func(_ *testing.T, _ *TestDataFactory) int { return 9999 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			capsuleID := tt.setup(t, factory)

			gotRowsAffected, err := storage.DeleteCapsule(context.Background(), capsuleID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRowsAffected, gotRowsAffected)

			if tt.wantRowsAffected == 1 {
				verification := NewTestVerification(storage)
				verification.VerifyCapsuleDeleted(t, capsuleID)
			}
		})
	}
}

func TestStorage_ListPublicCapsules(t *testing.T) {
	pastOpening := time.Now().Add(-24 * time.Hour)
	futureOpening := time.Now().Add(24 * time.Hour)
	viajes := "Viajes"
	playa := "playa"

	// Las cápsulas privadas o aún cerradas nunca entran en el listado
	// público, con o sin filtros.
	seed := func(t *testing.T, factory *TestDataFactory) {
		userUID := uuid.New().String()
		factory.CreateUser(t, userUID, "ana", "ana@example.com", "hash", "user")

		openTravel := factory.CreateCapsule(t, "Viaje a la playa", "public", userUID, pastOpening, 3)
		_, err := factory.storage.DB.Exec(`UPDATE capsules SET tags = 'playa,verano' WHERE id = $1`, openTravel)
		require.NoError(t, err)

		factory.CreateCapsule(t, "Cumpleaños", "public", userUID, pastOpening, 2)
		factory.CreateCapsule(t, "Todavía cerrada", "public", userUID, futureOpening, 3)
		factory.CreateCapsule(t, "Secreta", "private", userUID, pastOpening, 3)
	}

	tests := []struct {
		name       string
		category   *string
		search     *string
		wantTitles []string
	}{
		{
			name:       "without filters lists every open public capsule",
			wantTitles: []string{"Viaje a la playa", "Cumpleaños"},
		},
		{
			name:       "category filter",
			category:   &viajes,
			wantTitles: []string{"Viaje a la playa"},
		},
		{
			name:       "search matches tags",
			search:     &playa,
			wantTitles: []string{"Viaje a la playa"},
		},
		{
			name:       "category and search combined with no match",
			category:   &viajes,
			search:     ptr("cumple"),
			wantTitles: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			seed(t, factory)

			ctx := context.Background()
			got, err := storage.ListPublicCapsules(ctx, tt.category, tt.search, 20, 0)
			require.NoError(t, err)

			var titles []string
			for _, v := range got {
				titles = append(titles, v.Title)
			}
			assert.ElementsMatch(t, tt.wantTitles, titles)

			count, err := storage.CountPublicCapsules(ctx, tt.category, tt.search)
			require.NoError(t, err)
			assert.Equal(t, len(tt.wantTitles), count)
		})
	}
}

func ptr(s string) *string { return &s }

func TestStorage_AddRecipient(t *testing.T) {
	opening := time.Now().Add(24 * time.Hour)

	t.Run("re-adding the same user only updates the role", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		creatorUID := uuid.New().String()
		readerUID := uuid.New().String()
		factory.CreateUser(t, creatorUID, "creator", "creator@example.com", "hash", "user")
		factory.CreateUser(t, readerUID, "reader", "reader@example.com", "hash", "user")
		capsuleID := factory.CreateCapsule(t, "Grupo", "group", creatorUID, opening, 4)

		ctx := context.Background()
		err := storage.AddRecipient(ctx, models.Recipient{
			UserUID: readerUID, CapsuleID: capsuleID, Role: "reader",
		})
		require.NoError(t, err)

		err = storage.AddRecipient(ctx, models.Recipient{
			UserUID: readerUID, CapsuleID: capsuleID, Role: "collaborator",
		})
		require.NoError(t, err)

		verification := NewTestVerification(storage)
		verification.VerifyRecipientRole(t, readerUID, capsuleID, "collaborator")
	})
}

func TestStorage_RegisterUser(t *testing.T) {
	tests := []struct {
		name    string
		user    models.User
		wantErr bool
		setup   func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name: "successful register user",
			user: models.User{
				UID:          uuid.New().String(),
				Email:        "test@example.com",
				Username:     "testuser",
				PasswordHash: "hashedpassword",
				Role:         "user",
			},
			wantErr: false,
			setup:   func(_ *testing.T, _ *TestDataFactory) {},
		},
		{
			name: "register user with duplicate username",
			user: models.User{
				UID:          uuid.New().String(),
				Email:        "test2@example.com",
				Username:     "testuser",
				PasswordHash: "hashedpassword2",
				Role:         "user",
			},
			wantErr: true,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hashedpassword", "user")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			uid, err := storage.RegisterUser(context.Background(), tt.user)

			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, uid)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, uid)

			verification := NewTestVerification(storage)
			verification.VerifyUserExists(t, uid)
		})
	}
}

func TestStorage_GetUserByUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     *models.User
		wantErr  bool
		setup    func(t *testing.T, factory *TestDataFactory) string
	}{
		{
			name:     "successful get user by username",
			username: "testuser",
			want: &models.User{
				Email:        "test@example.com",
				Username:     "testuser",
				PasswordHash: "hashedpassword",
				Role:         "user",
			},
			wantErr: false,
			setup: func(t *testing.T, factory *TestDataFactory) string {
				userUID := uuid.New().String()
				factory.CreateUser(t, userUID, "testuser", "test@example.com", "hashedpassword", "user")
				return userUID
			},
		},
		{
			name:     "get non-existing user",
			username: "nonexistent",
			want:     nil,
			wantErr:  true,
			setup:    func(_ *testing.T, _ *TestDataFactory) string { return "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			userUID := tt.setup(t, factory)

			got, err := storage.GetUserByUsername(context.Background(), tt.username)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrNotFound)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, userUID, got.UID)
			assert.Equal(t, tt.want.Email, got.Email)
			assert.Equal(t, tt.want.Username, got.Username)
			assert.Equal(t, tt.want.PasswordHash, got.PasswordHash)
			assert.Equal(t, tt.want.Role, got.Role)
		})
	}
}

func TestStorage_FindCapsulesOpeningToday(t *testing.T) {
	tests := []struct {
		name      string
		wantCount int
		setup     func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name:      "one capsule reached its opening date",
			wantCount: 1,
			setup: func(t *testing.T, factory *TestDataFactory) {
				userUID := uuid.New().String()
				factory.CreateUser(t, userUID, "ana", "ana@example.com", "hash", "user")
				factory.CreateCapsule(t, "Abierta", "private", userUID, time.Now().Add(-time.Hour), 1)
				factory.CreateCapsule(t, "Futura", "private", userUID, time.Now().Add(24*time.Hour), 1)
			},
		},
		{
			name:      "already announced capsules are skipped",
			wantCount: 0,
			setup: func(t *testing.T, factory *TestDataFactory) {
				userUID := uuid.New().String()
				factory.CreateUser(t, userUID, "ana", "ana@example.com", "hash", "user")
				id := factory.CreateCapsule(t, "Anunciada", "private", userUID, time.Now().Add(-time.Hour), 1)
				require.NoError(t, factory.storage.MarkOpeningNotified(context.Background(), id))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			got, err := storage.FindCapsulesOpeningToday(context.Background())
			require.NoError(t, err)
			assert.Len(t, got, tt.wantCount)

			if tt.wantCount == 1 {
				assert.Equal(t, "Abierta", got[0].Title)
				assert.Equal(t, "ana@example.com", got[0].OwnerEmail)
			}
		})
	}
}

func TestCheckDatabaseReady(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(t *testing.T, storage *Storage)
		wantError    bool
		errorContain string
	}{
		{
			name:      "schema applied",
			setup:     func(_ *testing.T, _ *Storage) {},
			wantError: false,
		},
		{
			name: "capsules table missing",
			setup: func(t *testing.T, storage *Storage) {
				_, err := storage.DB.Exec(`DROP TABLE IF EXISTS capsules CASCADE`)
				require.NoError(t, err)
			},
			wantError:    true,
			errorContain: "missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()
			tt.setup(t, storage)

			err := CheckDatabaseReady(storage)
			if tt.wantError {
				require.Error(t, err)
				if tt.errorContain != "" {
					assert.Contains(t, err.Error(), tt.errorContain)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}
