// Package paymentcheckout implementa el handler HTTP que arranca el
// cobro del plan Premium.
package paymentcheckout

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lromnav497/pardespue/internal/http/middlewarectx"
	"github.com/lromnav497/pardespue/internal/http/response"
	"github.com/lromnav497/pardespue/internal/lib/sl"
	"github.com/lromnav497/pardespue/internal/services/payment"
)

// Handler gestiona el arranque de sesiones de pago.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describe el arranque de una sesión de pago.
type Service interface {
	Checkout(ctx context.Context, userUID string) (*payment.CheckoutResult, error)
}

// New crea un Handler de arranque de pagos.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Contratar el plan Premium
// @Description Crea la sesión de pago en el proveedor y devuelve la URL de confirmación. El plan se activa cuando llega el webhook del cobro.
// @Tags Payments
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=payment.CheckoutResult} "Sesión de pago creada"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 409 {object} response.ErrorResponse "Ya tienes el plan Premium"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /payments/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.checkout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := middlewarectx.UID(r.Context())
	if userUID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("sin autenticar"))
		return
	}

	result, err := h.service.Checkout(r.Context(), userUID)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrAlreadyPremium):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("ya tienes el plan Premium activo"))
		default:
			log.Error("failed to start checkout", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo iniciar el pago"))
		}
		return
	}

	log.Info("checkout started", slog.Int("transaction_id", result.TransactionID))
	render.JSON(w, r, response.OKWithData(result))
}
