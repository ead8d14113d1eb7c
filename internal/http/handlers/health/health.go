// Package health implementa el handler HTTP de comprobación de vida y
// disponibilidad de la base de datos.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lromnav497/pardespue/internal/http/response"
	"github.com/lromnav497/pardespue/internal/lib/sl"
)

// Checker comprueba que la base de datos está migrada y accesible.
type Checker func() error

// Handler gestiona la comprobación de salud.
type Handler struct {
	log   *slog.Logger
	check Checker
}

// New crea un Handler de salud con la comprobación indicada.
func New(log *slog.Logger, check Checker) *Handler {
	return &Handler{log: log, check: check}
}

// ServeHTTP godoc
// @Summary Estado del servicio
// @Description Comprueba que el servicio responde y la base de datos está disponible.
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response "Servicio operativo"
// @Failure 503 {object} response.ErrorResponse "Base de datos no disponible"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.check(); err != nil {
		log.Error("database not ready", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("la base de datos no está disponible"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{"status": "ok"}))
}
