// Package sl contiene ayudas para el logger estructurado slog.
// Su único propósito es unificar el formato de los campos de error.
package sl

import "log/slog"

// Err devuelve un slog.Attr con clave "error" y el texto del error.
//
// Ejemplo:
//
//	log.Error("failed to open capsule", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
