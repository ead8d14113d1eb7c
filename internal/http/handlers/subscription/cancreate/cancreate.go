// Package cancreate implementa el handler HTTP que consulta si el plan
// del usuario le permite crear otra cápsula.
package cancreate

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

// Handler gestiona la consulta del techo de cápsulas.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describe la comprobación del techo de cápsulas del plan.
type Service interface {
	CanCreateCapsule(ctx context.Context, userUID string) (*models.CreateCheck, error)
}

// New crea un Handler de la comprobación de creación.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary ¿Puedo crear otra cápsula?
// @Description Indica si el plan vigente del usuario le permite crear otra cápsula y, si no, el motivo.
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.CreateCheck} "Resultado de la comprobación"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /subscriptions/can-create-capsule [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancreate"
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

	check, err := h.service.CanCreateCapsule(r.Context(), userUID)
	if err != nil {
		log.Error("failed to check capsule limit", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("no se pudo comprobar el límite de cápsulas"))
		return
	}

	render.JSON(w, r, response.OKWithData(check))
}
