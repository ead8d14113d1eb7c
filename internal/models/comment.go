package models

import "time"

// Comment es un comentario de un usuario sobre una cápsula ya abierta.
// Solo su autor puede editarlo o borrarlo.
type Comment struct {
	ID           int       // Identificador del comentario
	CapsuleID    int       // Cápsula comentada
	UserUID      string    // Autor del comentario
	Text         string    // Texto del comentario
	CreationDate time.Time // Fecha de creación
}

// CommentView es la fila que devuelve el listado de comentarios, con el
// nombre del autor resuelto.
type CommentView struct {
	Comment
	AuthorUsername string // Nombre del autor
}

// DummyComment recibe el texto de un comentario desde una petición JSON.
type DummyComment struct {
	Text string `json:"text" validate:"required,max=1000"` // Texto del comentario
}
