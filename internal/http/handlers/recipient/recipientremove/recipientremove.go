// Package recipientremove implementa el handler HTTP que quita un
// destinatario de una cápsula grupal.
package recipientremove

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
	"github.com/lromnav497/pardespue/internal/services/access"
	"github.com/lromnav497/pardespue/internal/services/recipient"
)

// Handler gestiona la baja de destinatarios.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describe la baja en el registro de destinatarios.
type Service interface {
	Remove(ctx context.Context, capsuleID int, actorUID, actorRole, userUID string) error
}

// New crea un Handler de baja de destinatarios.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Quitar un destinatario
// @Description Elimina a un usuario del registro de destinatarios de una cápsula grupal cerrada.
// @Tags Recipients
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID de la cápsula"
// @Param userUID path string true "UID del destinatario"
// @Success 200 {object} response.Response "Destinatario eliminado"
// @Failure 400 {object} response.ErrorResponse "ID incorrecto"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 403 {object} response.ErrorResponse "Solo el creador gestiona destinatarios"
// @Failure 404 {object} response.ErrorResponse "No existe"
// @Failure 409 {object} response.ErrorResponse "La cápsula ya está abierta"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /capsules/{id}/recipients/{userUID} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipient.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	capsuleID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid capsule id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("identificador no válido"))
		return
	}
	userUID := chi.URLParam(r, "userUID")

	actorUID := middlewarectx.UID(r.Context())
	if actorUID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("sin autenticar"))
		return
	}
	actorRole := middlewarectx.SiteRole(r.Context())

	if err := h.service.Remove(r.Context(), capsuleID, actorUID, actorRole, userUID); err != nil {
		switch {
		case errors.Is(err, recipient.ErrCapsuleNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("la cápsula no existe"))
		case errors.Is(err, recipient.ErrRecipientNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("el destinatario no está en la cápsula"))
		case errors.Is(err, recipient.ErrNotGroupCapsule):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("solo las cápsulas grupales tienen destinatarios"))
		case errors.Is(err, access.ErrAlreadyOpened):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("una cápsula abierta ya no se puede editar"))
		case access.IsDenial(err):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("solo el creador gestiona los destinatarios"))
		default:
			log.Error("failed to remove recipient", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo quitar el destinatario"))
		}
		return
	}

	log.Info("recipient removed", slog.Int("capsule_id", capsuleID), slog.String("user_uid", userUID))
	render.JSON(w, r, response.OK())
}
