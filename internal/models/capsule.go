// Package models contiene las estructuras de dominio de ParDespue:
// cápsulas, contenidos, destinatarios, suscripciones, comentarios,
// usuarios, categorías, notificaciones y transacciones, además de los
// tipos auxiliares para recibir datos desde peticiones JSON.
package models

import "time"

// Valores admitidos para la privacidad de una cápsula.
const (
	PrivacyPrivate = "private"
	PrivacyGroup   = "group"
	PrivacyPublic  = "public"
)

// Capsule representa la cápsula del tiempo tal y como vive en el
// almacenamiento y en la lógica de negocio. PasswordHash es nil cuando la
// cápsula no tiene contraseña; solo las cápsulas privadas pueden tenerla.
type Capsule struct {
	ID              int       // Identificador de la cápsula
	Title           string    // Título visible
	Description     string    // Descripción libre
	CreationDate    time.Time // Fecha de creación
	OpeningDate     time.Time // Fecha de apertura, estrictamente posterior a la creación
	Privacy         string    // private, group o public
	PasswordHash    *string   // Hash bcrypt de la contraseña (nil si no hay)
	CreatorUID      string    // UID del usuario creador
	Tags            string    // Etiquetas en texto libre, separadas por comas
	CategoryID      int       // Categoría de la cápsula
	CoverContentID  *int      // Contenido usado como portada (opcional)
	Likes           int       // Contador de "me gusta"
	Views           int       // Contador de visualizaciones
	OpeningNotified bool      // La apertura ya fue anunciada por el scheduler
}

// Opened indica si la cápsula ya alcanzó su fecha de apertura.
func (c *Capsule) Opened(now time.Time) bool {
	return !now.Before(c.OpeningDate)
}

// CapsuleView es la fila derivada que devuelve el listado público:
// la cápsula unida con los datos del autor y el nombre de la categoría.
type CapsuleView struct {
	Capsule
	AuthorUsername string // Nombre del autor
	AuthorEmail    string // Correo del autor
	CategoryName   string // Nombre de la categoría
}

// DummyCapsule recibe los datos de una cápsula desde una petición JSON
// antes de validarlos y convertirlos en Capsule. Las fechas llegan como
// cadenas RFC 3339 para poder validarlas y parsearlas a mano.
type DummyCapsule struct {
	Title          string `json:"title" validate:"required,max=120"`                      // Título
	Description    string `json:"description" validate:"max=2000"`                        // Descripción
	OpeningDate    string `json:"opening_date" validate:"required"`                       // Fecha de apertura RFC 3339
	Privacy        string `json:"privacy" validate:"required,oneof=private group public"` // Privacidad
	Password       string `json:"password,omitempty" validate:"omitempty,min=4,max=72"`   // Contraseña (solo private)
	Tags           string `json:"tags,omitempty"`                                         // Etiquetas
	CategoryID     int    `json:"category_id" validate:"required,gt=0"`                   // Categoría
	CoverContentID *int   `json:"cover_content_id,omitempty"`                             // Portada (opcional)
}

// DummyCheckPassword recibe la contraseña a comprobar contra una cápsula privada.
type DummyCheckPassword struct {
	Password string `json:"password" validate:"required"`
}
