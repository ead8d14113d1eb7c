// Package recipientadd implementa el handler HTTP que añade o reasigna
// un destinatario en una cápsula grupal.
package recipientadd

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/lromnav497/pardespue/internal/http/middlewarectx"
	"github.com/lromnav497/pardespue/internal/http/response"
	"github.com/lromnav497/pardespue/internal/lib/sl"
	"github.com/lromnav497/pardespue/internal/models"
	"github.com/lromnav497/pardespue/internal/services/access"
	"github.com/lromnav497/pardespue/internal/services/recipient"
)

// Handler gestiona el alta de destinatarios.
type Handler struct {
	log      *slog.Logger        // Logger de operaciones y errores
	service  Service             // Lógica de negocio del registro
	validate *validator.Validate // Validador de la petición
}

// Service describe el alta en el registro de destinatarios.
type Service interface {
	Add(ctx context.Context, capsuleID int, actorUID, actorRole string, req models.DummyRecipient) error
}

// New crea un Handler de alta de destinatarios.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Añadir un destinatario
// @Description Añade un usuario como lector o colaborador de una cápsula grupal cerrada. Repetir el alta del mismo usuario actualiza su rol.
// @Tags Recipients
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID de la cápsula"
// @Param request body models.DummyRecipient true "Usuario y rol"
// @Success 200 {object} response.Response "Destinatario añadido"
// @Failure 400 {object} response.ErrorResponse "JSON o ID incorrecto"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 403 {object} response.ErrorResponse "Solo el creador gestiona destinatarios"
// @Failure 404 {object} response.ErrorResponse "No existe"
// @Failure 409 {object} response.ErrorResponse "La cápsula no es grupal o ya está abierta"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /capsules/{id}/recipients [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipient.add"
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

	var req models.DummyRecipient
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

	actorUID := middlewarectx.UID(r.Context())
	if actorUID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("sin autenticar"))
		return
	}
	actorRole := middlewarectx.SiteRole(r.Context())

	if err := h.service.Add(r.Context(), capsuleID, actorUID, actorRole, req); err != nil {
		switch {
		case errors.Is(err, recipient.ErrCapsuleNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("la cápsula no existe"))
		case errors.Is(err, recipient.ErrUserNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("el usuario no existe"))
		case errors.Is(err, recipient.ErrNotGroupCapsule):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("solo las cápsulas grupales tienen destinatarios"))
		case errors.Is(err, recipient.ErrCreatorAsRecipient):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("el creador no puede ser destinatario"))
		case errors.Is(err, access.ErrAlreadyOpened):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("una cápsula abierta ya no se puede editar"))
		case access.IsDenial(err):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("solo el creador gestiona los destinatarios"))
		default:
			log.Error("failed to add recipient", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo añadir el destinatario"))
		}
		return
	}

	log.Info("recipient added", slog.Int("capsule_id", capsuleID), slog.String("user_uid", req.UserUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user_uid": req.UserUID,
		"role":     req.Role,
	}))
}
