// Package response contiene los tipos y funciones auxiliares para
// construir respuestas JSON uniformes en los handlers HTTP: respuestas
// correctas, errores y mensajes de validación en un único formato.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response es la estructura estándar de respuesta del servidor.
// Status vale "OK" o "Error"; Error lleva el texto del fallo y Data los
// datos de la respuesta cuando hay éxito.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse es la forma del error para la documentación Swagger.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"cuerpo de la petición no válido"`
}

const (
	// StatusOK es el valor de Status en respuestas correctas.
	StatusOK = "OK"
	// StatusError es el valor de Status en respuestas con error.
	StatusError = "Error"
)

// OK devuelve una Response correcta sin datos.
func OK() Response {
	return Response{Status: StatusOK}
}

// OKWithData devuelve una Response correcta con los datos indicados.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error devuelve una Response de error con el mensaje indicado.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError construye una Response de error a partir de los fallos
// de validación, con un texto legible por violación unido por comas.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("el campo %s es obligatorio", err.Field()))
		case "alphanum":
			errsMsgs = append(errsMsgs, fmt.Sprintf("el campo %s solo admite letras y números", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("el campo %s debe ser un correo válido", err.Field()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("el campo %s debe ser un UUID", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("el campo %s tiene un valor fuera de catálogo", err.Field()))
		case "min", "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("el campo %s no cumple la longitud permitida", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("el campo %s no es válido", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}
