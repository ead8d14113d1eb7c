// Package jwt implementa la generación y el parseo de tokens JWT con
// claims propios de ParDespue: nombre de usuario, rol de sitio y UID.
package jwt

import (
	"time"
)

// Maker describe la interfaz de generación y parseo de tokens.
type Maker interface {
	// GenerateToken crea un token firmado para el usuario dado.
	GenerateToken(username, role, userUID string) (string, error)
	// ParseToken valida un token y devuelve sus claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl implementa Maker con clave secreta y tiempo de vida fijos.
type MakerImpl struct {
	secretKey string        // Clave secreta de firma
	tokenTTL  time.Duration // Tiempo de vida del token
}

// NewMaker crea un MakerImpl con la clave secreta y el TTL indicados.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
