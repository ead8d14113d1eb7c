package models

import "time"

// Estados de una transacción de cobro.
const (
	TransactionPending   = "pending"
	TransactionSucceeded = "succeeded"
	TransactionFailed    = "failed"
)

// Transaction registra un cobro asociado a un cambio de plan. ProviderID
// es el identificador de la sesión de pago en el proveedor externo.
type Transaction struct {
	ID             int       // Identificador de la transacción
	UserUID        string    // Usuario que paga
	SubscriptionID *int      // Suscripción activada por el cobro (nil hasta el webhook)
	Amount         float64   // Importe en euros
	ProviderID     string    // Referencia de la sesión en el proveedor
	Status         string    // pending, succeeded o failed
	CreatedAt      time.Time // Fecha de creación
}
