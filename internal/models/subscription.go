package models

import "time"

// Planes de suscripción disponibles.
const (
	PlanBasico  = "basico"
	PlanPremium = "premium"
)

// Estados posibles de una fila de suscripción.
const (
	SubscriptionActive   = "active"
	SubscriptionInactive = "inactive"
	SubscriptionCanceled = "canceled"
)

// Subscription es una fila del historial de suscripciones de un usuario.
// Solo la fila activa más reciente (por fecha de fin descendente) es la
// autoritativa; sin fila activa el usuario está en el plan Básico.
type Subscription struct {
	ID        int       // Identificador de la suscripción
	UserUID   string    // Usuario titular
	Plan      string    // basico o premium
	StartDate time.Time // Inicio de la vigencia
	EndDate   time.Time // Fin de la vigencia
	Status    string    // active, inactive o canceled
}

// PlanStatus es la respuesta del resolutor de plan para un usuario.
type PlanStatus struct {
	Plan     string     `json:"plan"`               // Plan vigente
	EndDate  *time.Time `json:"end_date,omitempty"` // Fin de la vigencia (nil para Básico por defecto)
	Capsules int        `json:"capsules"`           // Cápsulas que posee el usuario
}

// CreateCheck es la respuesta de la comprobación de límite de cápsulas.
type CreateCheck struct {
	Allowed bool   `json:"allowed"`          // El usuario puede crear otra cápsula
	Reason  string `json:"reason,omitempty"` // Motivo de la denegación
}

// DummyChangePlan recibe un cambio de plan desde una petición JSON.
type DummyChangePlan struct {
	Plan string `json:"plan" validate:"required,oneof=basico premium"` // Plan solicitado
}
