// Package paymentwebhook implementa el handler HTTP que recibe las
// notificaciones de cobro del proveedor de pagos.
package paymentwebhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lromnav497/pardespue/internal/http/response"
	"github.com/lromnav497/pardespue/internal/lib/sl"
	"github.com/lromnav497/pardespue/internal/paymentprovider"
	"github.com/lromnav497/pardespue/internal/services/payment"
)

// Handler gestiona el webhook del proveedor de pagos.
type Handler struct {
	log           *slog.Logger
	service       Service
	webhookSecret string
}

// Service describe el procesado de un evento de cobro.
type Service interface {
	HandleWebhook(ctx context.Context, event paymentprovider.WebhookEvent) error
}

// New crea un Handler de webhook de pagos.
func New(log *slog.Logger, service Service, webhookSecret string) *Handler {
	return &Handler{log: log, service: service, webhookSecret: webhookSecret}
}

// ServeHTTP godoc
// @Summary Webhook del proveedor de pagos
// @Description Recibe los eventos de cobro del proveedor. Requiere el secreto compartido en la cabecera X-Webhook-Secret. Los reenvíos de transacciones ya liquidadas se aceptan sin efecto.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param X-Webhook-Secret header string true "Secreto compartido del webhook"
// @Param request body paymentprovider.WebhookEvent true "Evento de cobro"
// @Success 200 {object} response.Response "Evento procesado"
// @Failure 400 {object} response.ErrorResponse "JSON incorrecto"
// @Failure 401 {object} response.ErrorResponse "Secreto incorrecto"
// @Failure 404 {object} response.ErrorResponse "Transacción desconocida"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	secret := r.Header.Get("X-Webhook-Secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.webhookSecret)) != 1 {
		log.Warn("webhook with wrong secret", slog.String("remote_addr", r.RemoteAddr))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("secreto incorrecto"))
		return
	}

	var event paymentprovider.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		log.Error("failed to decode webhook", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("cuerpo de la petición no válido"))
		return
	}

	if err := h.service.HandleWebhook(r.Context(), event); err != nil {
		switch {
		case errors.Is(err, payment.ErrUnknownTransaction):
			log.Warn("webhook for unknown transaction", slog.String("provider_id", event.Object.ID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("transacción desconocida"))
		default:
			log.Error("failed to handle webhook", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo procesar el evento"))
		}
		return
	}

	log.Info("webhook handled", slog.String("event", event.Event), slog.String("provider_id", event.Object.ID))
	render.JSON(w, r, response.OK())
}
