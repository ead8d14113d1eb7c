// Package myplan implementa el handler HTTP que devuelve el plan vigente
// del usuario autenticado.
package myplan

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lromnav497/pardespue/internal/http/middlewarectx"
	"github.com/lromnav497/pardespue/internal/http/response"
	"github.com/lromnav497/pardespue/internal/lib/sl"
	"github.com/lromnav497/pardespue/internal/models"
)

// Handler gestiona la consulta del plan.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describe la consulta del plan vigente de un usuario.
type Service interface {
	Status(ctx context.Context, userUID string) (*models.PlanStatus, error)
}

// New crea un Handler de consulta de plan.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Mi plan
// @Description Devuelve el plan vigente del usuario autenticado, su fecha de fin y cuántas cápsulas posee.
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.PlanStatus} "Plan vigente"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /subscriptions/my-plan [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.myplan"
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

	status, err := h.service.Status(r.Context(), userUID)
	if err != nil {
		log.Error("failed to resolve plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("no se pudo consultar el plan"))
		return
	}

	render.JSON(w, r, response.OKWithData(status))
}
