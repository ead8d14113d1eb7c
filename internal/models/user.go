package models

import "time"

// Roles de sitio de un usuario.
const (
	SiteRoleUser  = "user"
	SiteRoleAdmin = "admin"
)

// User representa un usuario registrado del sistema.
type User struct {
	UID          string    // Identificador único del usuario
	Email        string    // Correo electrónico
	Username     string    // Nombre de usuario (único)
	PasswordHash string    // Hash bcrypt de la contraseña
	Role         string    // user o admin
	Verified     bool      // El correo fue verificado
	Banned       bool      // El usuario está bloqueado
	CreatedAt    time.Time // Fecha de alta
}

// DummyRegister recibe los datos de registro desde una petición JSON.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`             // Correo electrónico
	Username string `json:"username" validate:"required,alphanum,min=3"` // Nombre de usuario
	Password string `json:"password" validate:"required,min=8,max=72"`   // Contraseña en claro
}

// DummyLogin recibe las credenciales de acceso desde una petición JSON.
type DummyLogin struct {
	Username string `json:"username" validate:"required"` // Nombre de usuario
	Password string `json:"password" validate:"required"` // Contraseña en claro
}
