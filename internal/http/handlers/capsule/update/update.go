// Package update implementa el handler HTTP de edición de cápsulas.
//
// Las transiciones de privacidad sensibles exigen confirmar la
// contraseña actual de la cápsula en el campo current_password.
package update

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
	"github.com/lromnav497/pardespue/internal/services/capsule"
)

// Request son los datos de edición más la contraseña actual cuando la
// mutación la requiere.
type Request struct {
	models.DummyCapsule
	CurrentPassword string `json:"current_password,omitempty"`
}

// Handler gestiona las peticiones de edición de cápsulas.
type Handler struct {
	log      *slog.Logger        // Logger de operaciones y errores
	service  Service             // Lógica de negocio de cápsulas
	validate *validator.Validate // Validador de la petición
}

// Service describe la operación de edición tras la puerta de acceso.
type Service interface {
	Update(ctx context.Context, id int, userUID, siteRole string, req models.DummyCapsule, currentPassword string) error
}

// New crea un Handler de edición.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Editar una cápsula
// @Description Modifica una cápsula aún cerrada. Solo el creador, o un colaborador con plan Premium, puede editar; bajar la privacidad desde private o cambiar la contraseña exige confirmar la contraseña actual.
// @Tags Capsules
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID de la cápsula"
// @Param request body Request true "Datos de la cápsula"
// @Success 200 {object} response.Response "Cápsula actualizada"
// @Failure 400 {object} response.ErrorResponse "JSON o ID incorrecto"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 403 {object} response.ErrorResponse "Edición denegada"
// @Failure 404 {object} response.ErrorResponse "No existe"
// @Failure 409 {object} response.ErrorResponse "La cápsula ya está abierta"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /capsules/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.capsule.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid capsule id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("identificador no válido"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("cuerpo de la petición no válido"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
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
	siteRole := middlewarectx.SiteRole(r.Context())

	err = h.service.Update(r.Context(), id, userUID, siteRole, req.DummyCapsule, req.CurrentPassword)
	if err != nil {
		switch {
		case errors.Is(err, capsule.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("la cápsula no existe"))
		case errors.Is(err, access.ErrAlreadyOpened):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("una cápsula abierta ya no se puede editar"))
		case errors.Is(err, access.ErrPasswordRequired):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("debes confirmar la contraseña actual de la cápsula"))
		case errors.Is(err, access.ErrWrongPassword):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("la contraseña no es correcta"))
		case errors.Is(err, capsule.ErrInvalidOpeningDate):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("la fecha de apertura debe ser posterior a la creación"))
		case errors.Is(err, capsule.ErrPasswordNotAllowed):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("solo las cápsulas privadas admiten contraseña"))
		case access.IsDenial(err):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("no puedes editar esta cápsula"))
		default:
			log.Error("failed to update capsule", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo actualizar la cápsula"))
		}
		return
	}

	log.Info("capsule updated", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
