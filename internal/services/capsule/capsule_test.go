package capsule

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lromnav497/pardespue/internal/lib/password"
	"github.com/lromnav497/pardespue/internal/models"
	"github.com/lromnav497/pardespue/internal/services/access"
	"github.com/lromnav497/pardespue/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateCapsule(ctx context.Context, c models.Capsule) (int, error) {
	args := m.Called(ctx, c)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadCapsule(ctx context.Context, id int) (*models.Capsule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Capsule), args.Error(1)
}
func (m *RepoMock) UpdateCapsule(ctx context.Context, c models.Capsule, id int) (int, error) {
	args := m.Called(ctx, c, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) DeleteCapsule(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListCapsulesByUser(ctx context.Context, userUID string) ([]*models.Capsule, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Capsule), args.Error(1)
}
func (m *RepoMock) ListPublicCapsules(ctx context.Context, category, search *string, limit, offset int) ([]*models.CapsuleView, error) {
	args := m.Called(ctx, category, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CapsuleView), args.Error(1)
}
func (m *RepoMock) CountPublicCapsules(ctx context.Context, category, search *string) (int, error) {
	args := m.Called(ctx, category, search)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) IncrementViews(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}
func (m *RepoMock) GetRecipientRole(ctx context.Context, userUID string, capsuleID int) (string, error) {
	args := m.Called(ctx, userUID, capsuleID)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) RemoveAllRecipientsByCapsule(ctx context.Context, capsuleID int) error {
	return m.Called(ctx, capsuleID).Error(0)
}
func (m *RepoMock) GetCategoryByID(ctx context.Context, id int) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type PlansMock struct{ mock.Mock }

func (m *PlansMock) GetPlan(ctx context.Context, userUID string) (string, error) {
	args := m.Called(ctx, userUID)
	return args.String(0), args.Error(1)
}
func (m *PlansMock) CanCreateCapsule(ctx context.Context, userUID string) (*models.CreateCheck, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreateCheck), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newService(repo *RepoMock, cache *CacheMock, plans *PlansMock) *Service {
	return New(repo, cache, plans, newNoopLogger())
}

// permissiveCache responde "no está" a todo y acepta cualquier Set.
func permissiveCache() *CacheMock {
	cache := new(CacheMock)
	cache.On("Get", mock.Anything, mock.Anything).Return(false, nil).Maybe()
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	cache.On("Invalidate", mock.Anything).Return(nil).Maybe()
	return cache
}

func futureDate() string {
	return time.Now().UTC().AddDate(0, 6, 0).Format(time.RFC3339)
}

func TestService_Create_LimitReached(t *testing.T) {
	repo := new(RepoMock)
	plans := new(PlansMock)
	plans.On("CanCreateCapsule", mock.Anything, "uid-1").
		Return(&models.CreateCheck{Allowed: false, Reason: "límite alcanzado"}, nil)

	svc := newService(repo, permissiveCache(), plans)
	_, err := svc.Create(context.Background(), "uid-1", models.DummyCapsule{
		Title:       "Capsula",
		OpeningDate: futureDate(),
		Privacy:     models.PrivacyPublic,
		CategoryID:  1,
	})

	assert.ErrorIs(t, err, ErrLimitReached)
	// Denegar por límite nunca inserta.
	repo.AssertNotCalled(t, "CreateCapsule", mock.Anything, mock.Anything)
}

func TestService_Create_OpeningDateMustBeFuture(t *testing.T) {
	repo := new(RepoMock)
	plans := new(PlansMock)
	plans.On("CanCreateCapsule", mock.Anything, "uid-1").
		Return(&models.CreateCheck{Allowed: true}, nil)

	svc := newService(repo, permissiveCache(), plans)
	_, err := svc.Create(context.Background(), "uid-1", models.DummyCapsule{
		Title:       "Capsula",
		OpeningDate: time.Now().UTC().AddDate(0, 0, -1).Format(time.RFC3339),
		Privacy:     models.PrivacyPublic,
		CategoryID:  1,
	})

	assert.ErrorIs(t, err, ErrInvalidOpeningDate)
	repo.AssertNotCalled(t, "CreateCapsule", mock.Anything, mock.Anything)
}

func TestService_Create_HashesPrivatePassword(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetCategoryByID", mock.Anything, 1).Return(&models.Category{ID: 1, Name: "Recuerdos"}, nil)
	repo.On("CreateCapsule", mock.Anything, mock.MatchedBy(func(c models.Capsule) bool {
		return c.Privacy == models.PrivacyPrivate &&
			c.PasswordHash != nil &&
			*c.PasswordHash != "secreto99" &&
			password.CompareHash(*c.PasswordHash, "secreto99") == nil
	})).Return(42, nil).Once()

	plans := new(PlansMock)
	plans.On("CanCreateCapsule", mock.Anything, "uid-1").
		Return(&models.CreateCheck{Allowed: true}, nil)

	svc := newService(repo, permissiveCache(), plans)
	id, err := svc.Create(context.Background(), "uid-1", models.DummyCapsule{
		Title:       "Solo mía",
		OpeningDate: futureDate(),
		Privacy:     models.PrivacyPrivate,
		Password:    "secreto99",
		CategoryID:  1,
	})

	require.NoError(t, err)
	assert.Equal(t, 42, id)
	repo.AssertExpectations(t)
}

func TestService_Create_PasswordOnPublicRejected(t *testing.T) {
	plans := new(PlansMock)
	plans.On("CanCreateCapsule", mock.Anything, "uid-1").
		Return(&models.CreateCheck{Allowed: true}, nil)

	svc := newService(new(RepoMock), permissiveCache(), plans)
	_, err := svc.Create(context.Background(), "uid-1", models.DummyCapsule{
		Title:       "Capsula",
		OpeningDate: futureDate(),
		Privacy:     models.PrivacyPublic,
		Password:    "clave",
		CategoryID:  1,
	})

	assert.ErrorIs(t, err, ErrPasswordNotAllowed)
}

func unopenedCapsule() *models.Capsule {
	return &models.Capsule{
		ID:           5,
		Title:        "Capsula",
		CreationDate: time.Now().UTC().AddDate(0, -1, 0),
		OpeningDate:  time.Now().UTC().AddDate(0, 1, 0),
		Privacy:      models.PrivacyPublic,
		CreatorUID:   "creator-uid",
	}
}

func openedCapsule() *models.Capsule {
	return &models.Capsule{
		ID:           5,
		Title:        "Capsula",
		CreationDate: time.Now().UTC().AddDate(0, -2, 0),
		OpeningDate:  time.Now().UTC().AddDate(0, -1, 0),
		Privacy:      models.PrivacyPublic,
		CreatorUID:   "creator-uid",
		Views:        3,
	}
}

func TestService_Get_DeniesBeforeOpening(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadCapsule", mock.Anything, 5).Return(unopenedCapsule(), nil)
	repo.On("GetRecipientRole", mock.Anything, "other-uid", 5).Return("", repository.ErrNotFound)

	plans := new(PlansMock)
	plans.On("GetPlan", mock.Anything, "other-uid").Return(models.PlanBasico, nil)

	svc := newService(repo, permissiveCache(), plans)
	_, err := svc.Get(context.Background(), 5, "other-uid", models.SiteRoleUser)

	assert.ErrorIs(t, err, access.ErrNotYetOpen)
	repo.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
}

func TestService_Get_PublicOpenedIncrementsViews(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadCapsule", mock.Anything, 5).Return(openedCapsule(), nil)
	repo.On("IncrementViews", mock.Anything, 5).Return(nil).Once()

	svc := newService(repo, permissiveCache(), new(PlansMock))
	// Lectura anónima de una cápsula pública ya abierta.
	got, err := svc.Get(context.Background(), 5, "", "")

	require.NoError(t, err)
	assert.Equal(t, 4, got.Views)
	repo.AssertExpectations(t)
}

func TestService_Get_NotFound(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadCapsule", mock.Anything, 99).Return(nil, repository.ErrNotFound)

	svc := newService(repo, permissiveCache(), new(PlansMock))
	_, err := svc.Get(context.Background(), 99, "", "")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CheckPassword(t *testing.T) {
	hash, err := password.GetHash("secreto99")
	require.NoError(t, err)

	c := unopenedCapsule()
	c.Privacy = models.PrivacyPrivate
	c.PasswordHash = &hash

	repo := new(RepoMock)
	repo.On("ReadCapsule", mock.Anything, 5).Return(c, nil)

	svc := newService(repo, permissiveCache(), new(PlansMock))

	assert.NoError(t, svc.CheckPassword(context.Background(), 5, "secreto99"))
	assert.ErrorIs(t, svc.CheckPassword(context.Background(), 5, "mala"), access.ErrWrongPassword)
}

func TestService_Update_LeavingPrivateClearsPassword(t *testing.T) {
	hash, err := password.GetHash("secreto99")
	require.NoError(t, err)

	c := unopenedCapsule()
	c.Privacy = models.PrivacyPrivate
	c.PasswordHash = &hash

	repo := new(RepoMock)
	repo.On("ReadCapsule", mock.Anything, 5).Return(c, nil)
	repo.On("GetRecipientRole", mock.Anything, "creator-uid", 5).Return("", repository.ErrNotFound)
	repo.On("UpdateCapsule", mock.Anything, mock.MatchedBy(func(u models.Capsule) bool {
		return u.Privacy == models.PrivacyPublic && u.PasswordHash == nil
	}), 5).Return(1, nil).Once()

	plans := new(PlansMock)
	plans.On("GetPlan", mock.Anything, "creator-uid").Return(models.PlanBasico, nil)

	svc := newService(repo, permissiveCache(), plans)
	err = svc.Update(context.Background(), 5, "creator-uid", models.SiteRoleUser, models.DummyCapsule{
		Title:       "Capsula",
		OpeningDate: c.OpeningDate.Format(time.RFC3339),
		Privacy:     models.PrivacyPublic,
		CategoryID:  1,
	}, "secreto99")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_Update_DowngradeFromPrivateNeedsPassword(t *testing.T) {
	hash, err := password.GetHash("secreto99")
	require.NoError(t, err)

	c := unopenedCapsule()
	c.Privacy = models.PrivacyPrivate
	c.PasswordHash = &hash

	repo := new(RepoMock)
	repo.On("ReadCapsule", mock.Anything, 5).Return(c, nil)
	repo.On("GetRecipientRole", mock.Anything, "creator-uid", 5).Return("", repository.ErrNotFound)

	plans := new(PlansMock)
	plans.On("GetPlan", mock.Anything, "creator-uid").Return(models.PlanBasico, nil)

	svc := newService(repo, permissiveCache(), plans)

	req := models.DummyCapsule{
		Title:       "Capsula",
		OpeningDate: c.OpeningDate.Format(time.RFC3339),
		Privacy:     models.PrivacyPublic,
		CategoryID:  1,
	}

	err = svc.Update(context.Background(), 5, "creator-uid", models.SiteRoleUser, req, "")
	assert.ErrorIs(t, err, access.ErrPasswordRequired)

	err = svc.Update(context.Background(), 5, "creator-uid", models.SiteRoleUser, req, "incorrecta")
	assert.ErrorIs(t, err, access.ErrWrongPassword)

	repo.AssertNotCalled(t, "UpdateCapsule", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Update_LeavingGroupRemovesRecipients(t *testing.T) {
	c := unopenedCapsule()
	c.Privacy = models.PrivacyGroup

	repo := new(RepoMock)
	repo.On("ReadCapsule", mock.Anything, 5).Return(c, nil)
	repo.On("GetRecipientRole", mock.Anything, "creator-uid", 5).Return("", repository.ErrNotFound)
	repo.On("RemoveAllRecipientsByCapsule", mock.Anything, 5).Return(nil).Once()
	repo.On("UpdateCapsule", mock.Anything, mock.Anything, 5).Return(1, nil)

	plans := new(PlansMock)
	plans.On("GetPlan", mock.Anything, "creator-uid").Return(models.PlanBasico, nil)

	svc := newService(repo, permissiveCache(), plans)
	err := svc.Update(context.Background(), 5, "creator-uid", models.SiteRoleUser, models.DummyCapsule{
		Title:       "Capsula",
		OpeningDate: c.OpeningDate.Format(time.RFC3339),
		Privacy:     models.PrivacyPublic,
		CategoryID:  1,
	}, "")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_Update_AfterOpeningDenied(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadCapsule", mock.Anything, 5).Return(openedCapsule(), nil)
	repo.On("GetRecipientRole", mock.Anything, "creator-uid", 5).Return("", repository.ErrNotFound)

	plans := new(PlansMock)
	plans.On("GetPlan", mock.Anything, "creator-uid").Return(models.PlanPremium, nil)

	svc := newService(repo, permissiveCache(), plans)
	err := svc.Update(context.Background(), 5, "creator-uid", models.SiteRoleUser, models.DummyCapsule{
		Title:       "Capsula",
		OpeningDate: futureDate(),
		Privacy:     models.PrivacyPublic,
		CategoryID:  1,
	}, "")

	assert.ErrorIs(t, err, access.ErrAlreadyOpened)
}

func TestService_Delete_CreatorOnly(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadCapsule", mock.Anything, 5).Return(openedCapsule(), nil)
	repo.On("GetRecipientRole", mock.Anything, "other-uid", 5).Return(models.RoleCollaborator, nil)

	plans := new(PlansMock)
	plans.On("GetPlan", mock.Anything, "other-uid").Return(models.PlanPremium, nil)

	svc := newService(repo, permissiveCache(), plans)
	err := svc.Delete(context.Background(), 5, "other-uid", models.SiteRoleUser)

	assert.ErrorIs(t, err, access.ErrNotCreator)
	repo.AssertNotCalled(t, "DeleteCapsule", mock.Anything, mock.Anything)
}

func TestService_Delete_InvalidatesCache(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadCapsule", mock.Anything, 5).Return(openedCapsule(), nil)
	repo.On("GetRecipientRole", mock.Anything, "creator-uid", 5).Return("", repository.ErrNotFound)
	repo.On("DeleteCapsule", mock.Anything, 5).Return(1, nil).Once()

	plans := new(PlansMock)
	plans.On("GetPlan", mock.Anything, "creator-uid").Return(models.PlanBasico, nil)

	cache := new(CacheMock)
	cache.On("Get", mock.Anything, mock.Anything).Return(false, nil)
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	cache.On("Invalidate", "capsule:5").Return(nil).Once()

	svc := newService(repo, cache, plans)
	err := svc.Delete(context.Background(), 5, "creator-uid", models.SiteRoleUser)

	require.NoError(t, err)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_ListPublic_TotalPages(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListPublicCapsules", mock.Anything, (*string)(nil), (*string)(nil), 10, 0).
		Return([]*models.CapsuleView{{}, {}}, nil)
	repo.On("CountPublicCapsules", mock.Anything, (*string)(nil), (*string)(nil)).Return(21, nil)

	svc := newService(repo, permissiveCache(), new(PlansMock))
	page, err := svc.ListPublic(context.Background(), 1, 10, "", "")

	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 2)
}
