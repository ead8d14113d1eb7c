// Package auth contiene la lógica de registro, inicio de sesión y
// validación de tokens JWT.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lromnav497/pardespue/internal/lib/jwt"
	"github.com/lromnav497/pardespue/internal/lib/password"
	"github.com/lromnav497/pardespue/internal/models"
)

// Errores terminales del servicio de autenticación.
var (
	// ErrInvalidCredentials el usuario no existe o la contraseña no coincide.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserBanned el usuario está bloqueado y no puede iniciar sesión.
	ErrUserBanned = errors.New("user is banned")
)

// UserRepository describe el contrato de almacenamiento de usuarios.
type UserRepository interface {
	// RegisterUser guarda un usuario nuevo y devuelve su UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername devuelve un usuario por su nombre o ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Service gestiona registro, inicio de sesión y validación de JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// New crea un Service de autenticación.
func New(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register da de alta un usuario con la contraseña hasheada con bcrypt
// y el rol por defecto "user". Devuelve el UID asignado.
func (s *Service) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	const op = "auth.Register"

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		UID:          uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hashed,
		Role:         models.SiteRoleUser,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// Login comprueba las credenciales y genera el JWT de sesión.
// Cualquier fallo de credenciales devuelve ErrInvalidCredentials sin
// distinguir si el usuario existe.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (token string, user *models.User, err error) {
	user, err = s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if user.Banned {
		return "", nil, ErrUserBanned
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ValidateToken comprueba el JWT y devuelve los datos del usuario que
// transporta.
func (s *Service) ValidateToken(_ context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.User{
		Username: claims.Username,
		Role:     claims.Role,
		UID:      claims.UserUID,
	}, nil
}
