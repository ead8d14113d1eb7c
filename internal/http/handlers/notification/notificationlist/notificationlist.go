// Package notificationlist implementa el handler HTTP que lista las
// notificaciones del usuario autenticado.
package notificationlist

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

// Handler gestiona el listado de notificaciones.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describe la consulta de las notificaciones de un usuario.
type Service interface {
	List(ctx context.Context, userUID string) ([]*models.Notification, error)
}

// New crea un Handler de listado de notificaciones.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Item es una notificación en la respuesta del listado.
type Item struct {
	ID        int       `json:"id"`
	CapsuleID *int      `json:"capsule_id,omitempty"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// ServeHTTP godoc
// @Summary Listar las notificaciones
// @Description Devuelve las notificaciones del usuario autenticado, de la más reciente a la más antigua.
// @Tags Notifications
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]Item} "Listado de notificaciones"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /notifications [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.list"
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

	notifications, err := h.service.List(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list notifications", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("no se pudieron consultar las notificaciones"))
		return
	}

	items := make([]Item, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, Item{
			ID:        n.ID,
			CapsuleID: n.CapsuleID,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}

	render.JSON(w, r, response.OKWithData(items))
}
