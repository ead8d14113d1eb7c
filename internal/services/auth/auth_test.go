package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lromnav497/pardespue/internal/lib/jwt"
	"github.com/lromnav497/pardespue/internal/lib/password"
	"github.com/lromnav497/pardespue/internal/models"
	"github.com/lromnav497/pardespue/internal/storage/repository"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func testMaker() jwt.Maker {
	return jwt.NewMaker("test-secret", time.Hour)
}

func TestService_Register_HashesPassword(t *testing.T) {
	repo := new(UserRepoMock)
	repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.UID != "" &&
			u.Role == models.SiteRoleUser &&
			u.PasswordHash != "contrasena123" &&
			password.CompareHash(u.PasswordHash, "contrasena123") == nil
	})).Return("uid-1", nil).Once()

	svc := New(repo, testMaker())
	uid, err := svc.Register(context.Background(), models.DummyRegister{
		Email:    "ana@example.com",
		Username: "ana",
		Password: "contrasena123",
	})

	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)
	repo.AssertExpectations(t)
}

func TestService_Login_Success(t *testing.T) {
	hash, err := password.GetHash("contrasena123")
	require.NoError(t, err)

	repo := new(UserRepoMock)
	repo.On("GetUserByUsername", mock.Anything, "ana").Return(&models.User{
		UID:          "uid-1",
		Username:     "ana",
		PasswordHash: hash,
		Role:         models.SiteRoleUser,
	}, nil)

	svc := New(repo, testMaker())
	token, user, err := svc.Login(context.Background(), "ana", "contrasena123")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "uid-1", user.UID)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "uid-1", claims.UID)
}

func TestService_Login_WrongPassword(t *testing.T) {
	hash, err := password.GetHash("contrasena123")
	require.NoError(t, err)

	repo := new(UserRepoMock)
	repo.On("GetUserByUsername", mock.Anything, "ana").Return(&models.User{
		Username:     "ana",
		PasswordHash: hash,
	}, nil)

	svc := New(repo, testMaker())
	_, _, err = svc.Login(context.Background(), "ana", "otracosa")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownUser(t *testing.T) {
	repo := new(UserRepoMock)
	repo.On("GetUserByUsername", mock.Anything, "nadie").Return(nil, repository.ErrNotFound)

	svc := New(repo, testMaker())
	_, _, err := svc.Login(context.Background(), "nadie", "contrasena123")

	// Usuario inexistente y contraseña errónea son indistinguibles.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_Banned(t *testing.T) {
	hash, err := password.GetHash("contrasena123")
	require.NoError(t, err)

	repo := new(UserRepoMock)
	repo.On("GetUserByUsername", mock.Anything, "ana").Return(&models.User{
		Username:     "ana",
		PasswordHash: hash,
		Banned:       true,
	}, nil)

	svc := New(repo, testMaker())
	_, _, err = svc.Login(context.Background(), "ana", "contrasena123")

	assert.ErrorIs(t, err, ErrUserBanned)
}

func TestService_ValidateToken_Garbage(t *testing.T) {
	svc := New(new(UserRepoMock), testMaker())
	_, err := svc.ValidateToken(context.Background(), "no-es-un-token")
	assert.Error(t, err)
}
