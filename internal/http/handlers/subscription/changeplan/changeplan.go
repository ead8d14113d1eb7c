// Package changeplan implementa el handler HTTP del cambio directo de
// plan: desactiva la suscripción vigente y da de alta la nueva.
package changeplan

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/lromnav497/pardespue/internal/http/middlewarectx"
	"github.com/lromnav497/pardespue/internal/http/response"
	"github.com/lromnav497/pardespue/internal/lib/sl"
	"github.com/lromnav497/pardespue/internal/models"
)

// Handler gestiona el cambio de plan.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describe la activación de un plan para un usuario.
type Service interface {
	ActivatePlan(ctx context.Context, userUID, planName string) (int, error)
}

// New crea un Handler de cambio de plan.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Cambiar de plan
// @Description Desactiva la suscripción vigente del usuario y activa el plan indicado. El alta de Premium con cobro pasa por el checkout de pagos.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyChangePlan true "Plan solicitado"
// @Success 200 {object} response.Response "Plan activado"
// @Failure 400 {object} response.ErrorResponse "JSON incorrecto"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /subscriptions/change-plan [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.changeplan"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyChangePlan
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("cuerpo de la petición no válido"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID := middlewarectx.UID(r.Context())
	if userUID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("sin autenticar"))
		return
	}

	subscriptionID, err := h.service.ActivatePlan(r.Context(), userUID, req.Plan)
	if err != nil {
		log.Error("failed to change plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("no se pudo cambiar el plan"))
		return
	}

	log.Info("plan changed", slog.String("plan", req.Plan), slog.Int("subscription_id", subscriptionID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"plan":            req.Plan,
		"subscription_id": subscriptionID,
	}))
}
