// Package shared implementa el handler HTTP que lista las cápsulas
// compartidas con el usuario autenticado.
package shared

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lromnav497/pardespue/internal/http/middlewarectx"
	"github.com/lromnav497/pardespue/internal/http/response"
	"github.com/lromnav497/pardespue/internal/lib/sl"
	"github.com/lromnav497/pardespue/internal/models"
)

// Handler gestiona el listado de cápsulas compartidas.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describe la consulta de cápsulas compartidas con un usuario.
type Service interface {
	SharedWith(ctx context.Context, userUID string) ([]*models.SharedCapsule, error)
}

// New crea un Handler de cápsulas compartidas.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Item resume una cápsula compartida en la respuesta del listado.
type Item struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OpeningDate time.Time `json:"opening_date"`
	Role        string    `json:"role"`
	Available   bool      `json:"available"`
}

// ServeHTTP godoc
// @Summary Cápsulas compartidas conmigo
// @Description Devuelve las cápsulas grupales en las que el usuario autenticado figura como destinatario, con su rol y si ya pueden leerse.
// @Tags Recipients
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]Item} "Listado de cápsulas compartidas"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /capsules/shared [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipient.shared"
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

	capsules, err := h.service.SharedWith(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list shared capsules", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("no se pudieron consultar las cápsulas compartidas"))
		return
	}

	items := make([]Item, 0, len(capsules))
	for _, c := range capsules {
		items = append(items, Item{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			OpeningDate: c.OpeningDate,
			Role:        c.Role,
			Available:   c.Available,
		})
	}

	render.JSON(w, r, response.OKWithData(items))
}
