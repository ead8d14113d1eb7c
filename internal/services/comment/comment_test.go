package comment

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lromnav497/pardespue/internal/models"
	"github.com/lromnav497/pardespue/internal/services/access"
	"github.com/lromnav497/pardespue/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ReadCapsule(ctx context.Context, id int) (*models.Capsule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Capsule), args.Error(1)
}
func (m *RepoMock) GetRecipientRole(ctx context.Context, userUID string, capsuleID int) (string, error) {
	args := m.Called(ctx, userUID, capsuleID)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) CreateComment(ctx context.Context, c models.Comment) (int, error) {
	args := m.Called(ctx, c)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadComment(ctx context.Context, id int) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}
func (m *RepoMock) ListCommentsByCapsule(ctx context.Context, capsuleID int) ([]*models.CommentView, error) {
	args := m.Called(ctx, capsuleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CommentView), args.Error(1)
}
func (m *RepoMock) UpdateComment(ctx context.Context, id int, text string) (int, error) {
	args := m.Called(ctx, id, text)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) DeleteComment(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) CreateNotification(ctx context.Context, n models.Notification) (int, error) {
	args := m.Called(ctx, n)
	return args.Int(0), args.Error(1)
}

type PlansMock struct{ mock.Mock }

func (m *PlansMock) GetPlan(ctx context.Context, userUID string) (string, error) {
	args := m.Called(ctx, userUID)
	return args.String(0), args.Error(1)
}

func newService(repo *RepoMock, plans *PlansMock) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	return New(repo, plans, log)
}

func openPublicCapsule() *models.Capsule {
	return &models.Capsule{
		ID:           3,
		Title:        "Promoción 2020",
		CreationDate: time.Now().UTC().AddDate(-1, 0, 0),
		OpeningDate:  time.Now().UTC().AddDate(0, 0, -1),
		Privacy:      models.PrivacyPublic,
		CreatorUID:   "creator-uid",
	}
}

const anaUID = "3f5b0c4e-8d21-4b6a-9f0e-1a2b3c4d5e6f"

func TestService_Create_NotifiesCreator(t *testing.T) {
	repo := new(RepoMock)
	plans := new(PlansMock)
	repo.On("ReadCapsule", mock.Anything, 3).Return(openPublicCapsule(), nil)
	repo.On("GetRecipientRole", mock.Anything, anaUID, 3).Return("", repository.ErrNotFound)
	plans.On("GetPlan", mock.Anything, anaUID).Return(models.PlanBasico, nil)
	repo.On("CreateComment", mock.Anything, models.Comment{
		CapsuleID: 3,
		UserUID:   anaUID,
		Text:      "qué recuerdos",
	}).Return(11, nil)
	repo.On("GetUserByUID", mock.Anything, anaUID).Return(&models.User{UID: anaUID, Username: "ana"}, nil)
	repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.UserUID == "creator-uid" && n.CapsuleID != nil && *n.CapsuleID == 3
	})).Return(1, nil)

	svc := newService(repo, plans)
	id, err := svc.Create(context.Background(), 3, anaUID, models.SiteRoleUser, "qué recuerdos")

	require.NoError(t, err)
	assert.Equal(t, 11, id)
	repo.AssertExpectations(t)
}

func TestService_Create_CreatorNotNotified(t *testing.T) {
	repo := new(RepoMock)
	plans := new(PlansMock)
	repo.On("ReadCapsule", mock.Anything, 3).Return(openPublicCapsule(), nil)
	repo.On("GetRecipientRole", mock.Anything, "creator-uid", 3).Return("", repository.ErrNotFound)
	plans.On("GetPlan", mock.Anything, "creator-uid").Return(models.PlanPremium, nil)
	repo.On("CreateComment", mock.Anything, mock.Anything).Return(12, nil)

	svc := newService(repo, plans)
	_, err := svc.Create(context.Background(), 3, "creator-uid", models.SiteRoleUser, "nota propia")

	require.NoError(t, err)
	repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
}

func TestService_Create_BeforeOpeningDenied(t *testing.T) {
	c := openPublicCapsule()
	c.OpeningDate = time.Now().UTC().AddDate(0, 0, 1)

	repo := new(RepoMock)
	plans := new(PlansMock)
	repo.On("ReadCapsule", mock.Anything, 3).Return(c, nil)
	repo.On("GetRecipientRole", mock.Anything, "creator-uid", 3).Return("", repository.ErrNotFound)
	plans.On("GetPlan", mock.Anything, "creator-uid").Return(models.PlanBasico, nil)

	svc := newService(repo, plans)
	_, err := svc.Create(context.Background(), 3, "creator-uid", models.SiteRoleUser, "demasiado pronto")

	assert.ErrorIs(t, err, access.ErrNotYetOpen)
	repo.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything)
}

func TestService_Create_CapsuleNotFound(t *testing.T) {
	repo := new(RepoMock)
	plans := new(PlansMock)
	repo.On("ReadCapsule", mock.Anything, 99).Return(nil, repository.ErrNotFound)

	svc := newService(repo, plans)
	_, err := svc.Create(context.Background(), 99, anaUID, models.SiteRoleUser, "hola")

	assert.ErrorIs(t, err, ErrCapsuleNotFound)
}

func TestService_Update_OnlyAuthor(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadComment", mock.Anything, 11).Return(&models.Comment{
		ID: 11, CapsuleID: 3, UserUID: anaUID, Text: "original",
	}, nil)

	svc := newService(repo, new(PlansMock))
	err := svc.Update(context.Background(), 11, "other-uid", "editado")

	assert.ErrorIs(t, err, ErrNotAuthor)
	repo.AssertNotCalled(t, "UpdateComment", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Delete_AdminBypassesAuthorship(t *testing.T) {
	repo := new(RepoMock)
	repo.On("DeleteComment", mock.Anything, 11).Return(1, nil)

	svc := newService(repo, new(PlansMock))
	err := svc.Delete(context.Background(), 11, "admin-uid", models.SiteRoleAdmin)

	require.NoError(t, err)
	repo.AssertNotCalled(t, "ReadComment", mock.Anything, mock.Anything)
}

func TestService_Delete_NotFound(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadComment", mock.Anything, 44).Return(nil, repository.ErrNotFound)

	svc := newService(repo, new(PlansMock))
	err := svc.Delete(context.Background(), 44, anaUID, models.SiteRoleUser)

	assert.ErrorIs(t, err, ErrCommentNotFound)
}
