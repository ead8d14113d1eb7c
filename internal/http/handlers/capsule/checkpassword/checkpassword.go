// Package checkpassword implementa el handler HTTP que comprueba la
// contraseña de una cápsula privada sin devolver su contenido.
package checkpassword

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

	"github.com/lromnav497/pardespue/internal/http/response"
	"github.com/lromnav497/pardespue/internal/lib/sl"
	"github.com/lromnav497/pardespue/internal/models"
	"github.com/lromnav497/pardespue/internal/services/access"
	"github.com/lromnav497/pardespue/internal/services/capsule"
)

// Handler gestiona la comprobación de contraseña de cápsulas.
type Handler struct {
	log      *slog.Logger        // Logger de operaciones y errores
	service  Service             // Lógica de negocio de cápsulas
	validate *validator.Validate // Validador de la petición
}

// Service describe la comprobación de contraseña.
type Service interface {
	CheckPassword(ctx context.Context, id int, rawPassword string) error
}

// New crea un Handler de comprobación de contraseña.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Comprobar la contraseña de una cápsula
// @Description Verifica la contraseña de una cápsula privada. No devuelve contenido; el resultado respalda mutaciones sensibles en el cliente.
// @Tags Capsules
// @Accept  json
// @Produce  json
// @Param id path int true "ID de la cápsula"
// @Param request body models.DummyCheckPassword true "Contraseña a comprobar"
// @Success 200 {object} response.Response "Contraseña correcta"
// @Failure 400 {object} response.ErrorResponse "JSON o ID incorrecto"
// @Failure 403 {object} response.ErrorResponse "Contraseña incorrecta"
// @Failure 404 {object} response.ErrorResponse "No existe"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /capsules/{id}/check-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.capsule.checkpassword"
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

	var req models.DummyCheckPassword
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

	if err := h.service.CheckPassword(r.Context(), id, req.Password); err != nil {
		switch {
		case errors.Is(err, capsule.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("la cápsula no existe"))
		case errors.Is(err, access.ErrWrongPassword):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("la contraseña no es correcta"))
		default:
			log.Error("failed to check password", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo comprobar la contraseña"))
		}
		return
	}

	log.Info("capsule password verified", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"valid": true,
	}))
}
