package payment

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lromnav497/pardespue/internal/config"
	"github.com/lromnav497/pardespue/internal/models"
	"github.com/lromnav497/pardespue/internal/paymentprovider"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateTransaction(ctx context.Context, t models.Transaction) (int, error) {
	args := m.Called(ctx, t)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) FindTransactionByProviderID(ctx context.Context, providerID string) (*models.Transaction, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}
func (m *RepoMock) SettleTransaction(ctx context.Context, id int, subscriptionID *int, status string) error {
	return m.Called(ctx, id, subscriptionID, status).Error(0)
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
func (m *PlansMock) ActivatePlan(ctx context.Context, userUID, planName string) (int, error) {
	args := m.Called(ctx, userUID, planName)
	return args.Int(0), args.Error(1)
}

type ProviderMock struct{ mock.Mock }

func (m *ProviderMock) CreatePayment(ctx context.Context, req paymentprovider.CreatePaymentRequest) (*paymentprovider.CreatePaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.CreatePaymentResponse), args.Error(1)
}

func newService(repo *RepoMock, plans *PlansMock, provider *ProviderMock) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	cfg := config.Payment{PremiumPrice: 4.99, ReturnURL: "https://pardespue.example/planes"}
	return New(repo, plans, provider, cfg, log)
}

func TestService_Checkout_CreatesPendingTransaction(t *testing.T) {
	plans := new(PlansMock)
	plans.On("GetPlan", mock.Anything, "uid-1").Return(models.PlanBasico, nil)

	provider := new(ProviderMock)
	provider.On("CreatePayment", mock.Anything, mock.MatchedBy(func(req paymentprovider.CreatePaymentRequest) bool {
		return req.Amount.Value == "4.99" &&
			req.Amount.Currency == "EUR" &&
			req.Metadata["user_uid"] == "uid-1"
	})).Return(&paymentprovider.CreatePaymentResponse{
		ID:     "prov-123",
		Status: "pending",
		Confirmation: struct {
			Type            string `json:"type"`
			ConfirmationURL string `json:"confirmation_url"`
		}{Type: "redirect", ConfirmationURL: "https://pay.example/prov-123"},
	}, nil)

	repo := new(RepoMock)
	repo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tx models.Transaction) bool {
		return tx.UserUID == "uid-1" &&
			tx.ProviderID == "prov-123" &&
			tx.Status == models.TransactionPending
	})).Return(11, nil).Once()

	svc := newService(repo, plans, provider)
	res, err := svc.Checkout(context.Background(), "uid-1")

	require.NoError(t, err)
	assert.Equal(t, 11, res.TransactionID)
	assert.Equal(t, "https://pay.example/prov-123", res.ConfirmationURL)
	repo.AssertExpectations(t)
}

func TestService_Checkout_AlreadyPremium(t *testing.T) {
	plans := new(PlansMock)
	plans.On("GetPlan", mock.Anything, "uid-1").Return(models.PlanPremium, nil)

	provider := new(ProviderMock)
	svc := newService(new(RepoMock), plans, provider)
	_, err := svc.Checkout(context.Background(), "uid-1")

	assert.ErrorIs(t, err, ErrAlreadyPremium)
	provider.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
}

func TestService_HandleWebhook_SucceededActivatesPremium(t *testing.T) {
	repo := new(RepoMock)
	repo.On("FindTransactionByProviderID", mock.Anything, "prov-123").Return(&models.Transaction{
		ID:         11,
		UserUID:    "uid-1",
		ProviderID: "prov-123",
		Status:     models.TransactionPending,
	}, nil)
	subID := 7
	repo.On("SettleTransaction", mock.Anything, 11, &subID, models.TransactionSucceeded).Return(nil).Once()
	repo.On("CreateNotification", mock.Anything, mock.Anything).Return(1, nil)

	plans := new(PlansMock)
	plans.On("ActivatePlan", mock.Anything, "uid-1", models.PlanPremium).Return(7, nil).Once()

	svc := newService(repo, plans, new(ProviderMock))
	event := paymentprovider.WebhookEvent{Event: paymentprovider.EventPaymentSucceeded}
	event.Object.ID = "prov-123"

	require.NoError(t, svc.HandleWebhook(context.Background(), event))
	repo.AssertExpectations(t)
	plans.AssertExpectations(t)
}

func TestService_HandleWebhook_CanceledFailsTransaction(t *testing.T) {
	repo := new(RepoMock)
	repo.On("FindTransactionByProviderID", mock.Anything, "prov-123").Return(&models.Transaction{
		ID:      11,
		UserUID: "uid-1",
		Status:  models.TransactionPending,
	}, nil)
	repo.On("SettleTransaction", mock.Anything, 11, (*int)(nil), models.TransactionFailed).Return(nil).Once()

	plans := new(PlansMock)
	svc := newService(repo, plans, new(ProviderMock))
	event := paymentprovider.WebhookEvent{Event: paymentprovider.EventPaymentCanceled}
	event.Object.ID = "prov-123"

	require.NoError(t, svc.HandleWebhook(context.Background(), event))
	plans.AssertNotCalled(t, "ActivatePlan", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestService_HandleWebhook_ReplayIgnored(t *testing.T) {
	repo := new(RepoMock)
	repo.On("FindTransactionByProviderID", mock.Anything, "prov-123").Return(&models.Transaction{
		ID:     11,
		Status: models.TransactionSucceeded,
	}, nil)

	plans := new(PlansMock)
	svc := newService(repo, plans, new(ProviderMock))
	event := paymentprovider.WebhookEvent{Event: paymentprovider.EventPaymentSucceeded}
	event.Object.ID = "prov-123"

	require.NoError(t, svc.HandleWebhook(context.Background(), event))
	plans.AssertNotCalled(t, "ActivatePlan", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "SettleTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
