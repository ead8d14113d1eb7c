package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/lromnav497/pardespue/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) FindCapsulesOpeningToday(ctx context.Context) ([]*models.CapsuleOpenedEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CapsuleOpenedEvent), args.Error(1)
}
func (m *RepoMock) ListRecipientUIDsByCapsule(ctx context.Context, capsuleID int) ([]string, error) {
	args := m.Called(ctx, capsuleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *RepoMock) MarkOpeningNotified(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_RunCapsuleOpenings_NoCapsules(t *testing.T) {
	repo := new(RepoMock)
	repo.On("FindCapsulesOpeningToday", mock.Anything).Return([]*models.CapsuleOpenedEvent{}, nil).Once()

	svc := New(repo, newNoopLogger())
	svc.runCapsuleOpenings(context.Background(), nil)

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "MarkOpeningNotified", mock.Anything, mock.Anything)
}

func TestService_RunCapsuleOpenings_RepositoryError(t *testing.T) {
	repo := new(RepoMock)
	repo.On("FindCapsulesOpeningToday", mock.Anything).Return(nil, errors.New("db error")).Once()

	svc := New(repo, newNoopLogger())
	svc.runCapsuleOpenings(context.Background(), nil)

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "ListRecipientUIDsByCapsule", mock.Anything, mock.Anything)
}

func TestService_RunCapsuleOpenings_RecipientsErrorSkipsCapsule(t *testing.T) {
	event := &models.CapsuleOpenedEvent{
		CapsuleID:   7,
		Title:       "Verano 2026",
		OpeningDate: time.Now().UTC(),
		OwnerUID:    "creator-uid",
		OwnerEmail:  "creator@example.com",
		OwnerName:   "creator",
	}

	repo := new(RepoMock)
	repo.On("FindCapsulesOpeningToday", mock.Anything).Return([]*models.CapsuleOpenedEvent{event}, nil).Once()
	repo.On("ListRecipientUIDsByCapsule", mock.Anything, 7).Return(nil, errors.New("db error")).Once()

	svc := New(repo, newNoopLogger())
	svc.runCapsuleOpenings(context.Background(), nil)

	repo.AssertExpectations(t)
	// Sin publicar no hay marca: la cápsula queda para la siguiente pasada.
	repo.AssertNotCalled(t, "MarkOpeningNotified", mock.Anything, mock.Anything)
}
