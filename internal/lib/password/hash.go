// Package password implementa el hasheo y la comprobación de contraseñas
// con bcrypt. Se usa tanto para las credenciales de los usuarios como
// para las contraseñas de las cápsulas privadas.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GetHash devuelve el hash bcrypt de la contraseña recibida.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash compara un hash bcrypt con una contraseña en claro.
// Devuelve nil si coinciden.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
