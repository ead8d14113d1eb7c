package paymentprovider

// Amount es un importe con su divisa en el formato del proveedor.
type Amount struct {
	Value    string `json:"value"`    // Decimal con dos cifras, p. ej. "4.99"
	Currency string `json:"currency"` // Código ISO 4217, p. ej. "EUR"
}

// Confirmation pide al proveedor una confirmación por redirección.
type Confirmation struct {
	Type      string `json:"type"`                 // Siempre "redirect"
	ReturnURL string `json:"return_url,omitempty"` // Adónde vuelve el usuario tras pagar
}

// CreatePaymentRequest es la petición de creación de una sesión de pago.
type CreatePaymentRequest struct {
	Amount       Amount            `json:"amount"`
	Capture      bool              `json:"capture"`
	Confirmation Confirmation      `json:"confirmation"`
	Description  string            `json:"description,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// CreatePaymentResponse es la respuesta del proveedor al crear la sesión.
type CreatePaymentResponse struct {
	ID           string `json:"id"`     // Identificador de la sesión
	Status       string `json:"status"` // pending hasta el webhook
	Amount       Amount `json:"amount"`
	Confirmation struct {
		Type            string `json:"type"`
		ConfirmationURL string `json:"confirmation_url"` // URL a la que enviar al usuario
	} `json:"confirmation"`
}

// WebhookEvent es la notificación que el proveedor envía al completarse
// o cancelarse un pago.
type WebhookEvent struct {
	Event  string `json:"event"` // payment.succeeded o payment.canceled
	Object struct {
		ID       string            `json:"id"`
		Status   string            `json:"status"`
		Amount   Amount            `json:"amount"`
		Metadata map[string]string `json:"metadata,omitempty"`
	} `json:"object"`
}

// Eventos de webhook que procesa el servicio de pagos.
const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentCanceled  = "payment.canceled"
)
