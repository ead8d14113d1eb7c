package models

import "time"

// Tipos de contenido admitidos dentro de una cápsula.
const (
	ContentImage = "image"
	ContentVideo = "video"
	ContentAudio = "audio"
	ContentFile  = "file"
)

// Content es un fichero adjunto a una cápsula. La subida física del
// fichero es responsabilidad de un colaborador externo; aquí solo se
// registra la ruta de almacenamiento.
type Content struct {
	ID           int       // Identificador del contenido
	Type         string    // image, video, audio o file
	Path         string    // Ruta de almacenamiento
	CreationDate time.Time // Fecha de registro
	CapsuleID    int       // Cápsula propietaria
}

// DummyContent recibe los datos de un contenido desde una petición JSON.
type DummyContent struct {
	Type string `json:"type" validate:"required,oneof=image video audio file"` // Tipo de contenido
	Path string `json:"path" validate:"required,max=512"`                      // Ruta de almacenamiento
}
