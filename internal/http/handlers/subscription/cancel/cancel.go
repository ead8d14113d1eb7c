// Package cancel implementa el handler HTTP que cancela la suscripción
// Premium del usuario autenticado.
package cancel

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
	"github.com/lromnav497/pardespue/internal/models"
	"github.com/lromnav497/pardespue/internal/services/plan"
)

// Handler gestiona la cancelación de suscripciones.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describe la cancelación de la suscripción activa.
type Service interface {
	Cancel(ctx context.Context, userUID string) error
}

// New crea un Handler de cancelación de suscripciones.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Cancelar la suscripción
// @Description Cancela la suscripción Premium activa del usuario, que vuelve al plan Básico. Las cápsulas ya creadas no se tocan.
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Suscripción cancelada"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 404 {object} response.ErrorResponse "Sin suscripción activa"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /subscriptions/my-plan [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"
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

	if err := h.service.Cancel(r.Context(), userUID); err != nil {
		switch {
		case errors.Is(err, plan.ErrNoActivePlan):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no tienes ninguna suscripción activa"))
		default:
			log.Error("failed to cancel subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo cancelar la suscripción"))
		}
		return
	}

	log.Info("subscription canceled", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{"plan": models.PlanBasico}))
}
