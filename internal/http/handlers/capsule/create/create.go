// Package create implementa el handler HTTP de creación de cápsulas.
//
// Valida la petición, comprueba el techo del plan del usuario a través
// del servicio y devuelve el ID de la cápsula creada.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/lromnav497/pardespue/internal/http/middlewarectx"
	"github.com/lromnav497/pardespue/internal/http/response"
	"github.com/lromnav497/pardespue/internal/lib/sl"
	"github.com/lromnav497/pardespue/internal/models"
	"github.com/lromnav497/pardespue/internal/services/capsule"
)

// Handler gestiona las peticiones de creación de cápsulas.
type Handler struct {
	log      *slog.Logger        // Logger de operaciones y errores
	service  Service             // Lógica de negocio de cápsulas
	validate *validator.Validate // Validador de la petición
}

// Service describe la operación de creación de cápsulas.
type Service interface {
	Create(ctx context.Context, userUID string, req models.DummyCapsule) (int, error)
}

// New crea un Handler de creación.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Crear una cápsula
// @Description Crea una cápsula del tiempo para el usuario autenticado. La fecha de apertura debe ser futura y solo las cápsulas privadas admiten contraseña.
// @Tags Capsules
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyCapsule true "Datos de la cápsula"
// @Success 200 {object} map[string]any "Cápsula creada"
// @Failure 400 {object} response.ErrorResponse "JSON incorrecto"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 403 {object} response.ErrorResponse "Límite del plan alcanzado"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 500 {object} response.ErrorResponse "Error al crear la cápsula"
// @Router /capsules [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.capsule.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCapsule
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
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("sin autenticar"))
		return
	}

	id, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		switch {
		case errors.Is(err, capsule.ErrLimitReached):
			log.Info("plan limit reached", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("has alcanzado el límite de cápsulas de tu plan"))
		case errors.Is(err, capsule.ErrInvalidOpeningDate):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("la fecha de apertura debe ser futura"))
		case errors.Is(err, capsule.ErrPasswordNotAllowed):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("solo las cápsulas privadas admiten contraseña"))
		default:
			log.Error("failed to create capsule", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo crear la cápsula"))
		}
		return
	}

	log.Info("capsule created", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
