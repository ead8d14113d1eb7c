// Package notificationread implementa el handler HTTP que marca una
// notificación como leída.
package notificationread

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lromnav497/pardespue/internal/http/middlewarectx"
	"github.com/lromnav497/pardespue/internal/http/response"
	"github.com/lromnav497/pardespue/internal/lib/sl"
	"github.com/lromnav497/pardespue/internal/services/notification"
)

// Handler gestiona el marcado de notificaciones.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describe el marcado de una notificación como leída.
type Service interface {
	MarkRead(ctx context.Context, id int, userUID string) error
}

// New crea un Handler de marcado de notificaciones.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Marcar una notificación como leída
// @Description Marca como leída una notificación del propio usuario. Las notificaciones ajenas cuentan como inexistentes.
// @Tags Notifications
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID de la notificación"
// @Success 200 {object} response.Response "Notificación marcada"
// @Failure 400 {object} response.ErrorResponse "ID incorrecto"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 404 {object} response.ErrorResponse "No existe"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /notifications/{id}/read [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid notification id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("identificador no válido"))
		return
	}

	userUID := middlewarectx.UID(r.Context())
	if userUID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("sin autenticar"))
		return
	}

	if err := h.service.MarkRead(r.Context(), id, userUID); err != nil {
		switch {
		case errors.Is(err, notification.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("la notificación no existe"))
		default:
			log.Error("failed to mark notification", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo marcar la notificación"))
		}
		return
	}

	log.Info("notification read", slog.Int("notification_id", id))
	render.JSON(w, r, response.OK())
}
