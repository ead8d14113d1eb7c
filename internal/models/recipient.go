package models

// Roles por cápsula para los destinatarios de cápsulas grupales.
const (
	RoleReader       = "reader"
	RoleCollaborator = "collaborator"
)

// Recipient asocia un usuario con una cápsula grupal y su rol dentro de
// ella. Solo existe para cápsulas con privacidad group; se garantiza como
// máximo un rol por par (usuario, cápsula).
type Recipient struct {
	UserUID   string // UID del usuario destinatario
	CapsuleID int    // Cápsula compartida
	Role      string // reader o collaborator
}

// SharedCapsule es la fila que devuelve el listado de cápsulas
// compartidas con un usuario: la cápsula más el rol del usuario y si ya
// está disponible para su lectura.
type SharedCapsule struct {
	Capsule
	Role      string // Rol del usuario en la cápsula
	Available bool   // La fecha de apertura ya pasó
}

// DummyRecipient recibe el alta de un destinatario desde una petición JSON.
type DummyRecipient struct {
	UserUID string `json:"user_uid" validate:"required,uuid"`               // Usuario a añadir
	Role    string `json:"role" validate:"required,oneof=reader collaborator"` // Rol asignado
}
