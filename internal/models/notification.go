package models

import "time"

// Notification es un aviso dirigido a un usuario: apertura de una
// cápsula, comentario nuevo o "me gusta" recibido.
type Notification struct {
	ID        int       // Identificador de la notificación
	UserUID   string    // Usuario destinatario
	CapsuleID *int      // Cápsula relacionada (opcional)
	Message   string    // Texto del aviso
	Read      bool      // Ya fue leída
	CreatedAt time.Time // Fecha de creación
}

// Category clasifica las cápsulas; el catálogo lo siembran las migraciones.
type Category struct {
	ID   int    `json:"id"`   // Identificador de la categoría
	Name string `json:"name"` // Nombre visible
}

// CapsuleOpenedEvent es el mensaje que el scheduler publica en RabbitMQ
// cuando una cápsula alcanza su fecha de apertura. El sender lo consume
// para crear notificaciones y enviar correos.
type CapsuleOpenedEvent struct {
	CapsuleID     int       `json:"capsule_id"`
	Title         string    `json:"title"`
	OpeningDate   time.Time `json:"opening_date"`
	OwnerUID      string    `json:"owner_uid"`
	OwnerEmail    string    `json:"owner_email"`
	OwnerName     string    `json:"owner_name"`
	RecipientUIDs []string  `json:"recipient_uids,omitempty"`
}
