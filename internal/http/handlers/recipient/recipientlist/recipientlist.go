// Package recipientlist implementa el handler HTTP que lista los
// destinatarios de una cápsula grupal.
package recipientlist

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
	"github.com/lromnav497/pardespue/internal/models"
	"github.com/lromnav497/pardespue/internal/services/access"
	"github.com/lromnav497/pardespue/internal/services/recipient"
)

// Handler gestiona el listado de destinatarios.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describe la consulta del registro de destinatarios.
type Service interface {
	List(ctx context.Context, capsuleID int, actorUID, actorRole string) ([]*models.Recipient, error)
}

// New crea un Handler de listado de destinatarios.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Item es un destinatario en la respuesta del listado.
type Item struct {
	UserUID string `json:"user_uid"`
	Role    string `json:"role"`
}

// ServeHTTP godoc
// @Summary Listar los destinatarios
// @Description Devuelve el registro de destinatarios de una cápsula grupal. Solo visible para el creador o un administrador.
// @Tags Recipients
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID de la cápsula"
// @Success 200 {object} response.Response{data=[]Item} "Listado de destinatarios"
// @Failure 400 {object} response.ErrorResponse "ID incorrecto"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 403 {object} response.ErrorResponse "Solo el creador consulta el registro"
// @Failure 404 {object} response.ErrorResponse "No existe"
// @Failure 409 {object} response.ErrorResponse "La cápsula no es grupal"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /capsules/{id}/recipients [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipient.list"
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

	actorUID := middlewarectx.UID(r.Context())
	if actorUID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("sin autenticar"))
		return
	}
	actorRole := middlewarectx.SiteRole(r.Context())

	recipients, err := h.service.List(r.Context(), capsuleID, actorUID, actorRole)
	if err != nil {
		switch {
		case errors.Is(err, recipient.ErrCapsuleNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("la cápsula no existe"))
		case errors.Is(err, recipient.ErrNotGroupCapsule):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("solo las cápsulas grupales tienen destinatarios"))
		case errors.Is(err, access.ErrAlreadyOpened):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("una cápsula abierta ya no se puede editar"))
		case access.IsDenial(err):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("solo el creador consulta el registro"))
		default:
			log.Error("failed to list recipients", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo consultar el registro"))
		}
		return
	}

	items := make([]Item, 0, len(recipients))
	for _, rec := range recipients {
		items = append(items, Item{UserUID: rec.UserUID, Role: rec.Role})
	}

	render.JSON(w, r, response.OKWithData(items))
}
