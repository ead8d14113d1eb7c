// Package register implementa el handler HTTP de alta de usuarios.
//
// Recibe un JSON con correo, nombre de usuario y contraseña, lo valida
// y delega el alta en el servicio de autenticación. Devuelve el UID del
// usuario creado.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/lromnav497/pardespue/internal/http/response"
	"github.com/lromnav497/pardespue/internal/lib/sl"
	"github.com/lromnav497/pardespue/internal/models"
)

// Handler gestiona las peticiones de registro.
type Handler struct {
	log      *slog.Logger        // Logger de operaciones y errores
	service  Service             // Lógica de negocio del registro
	validate *validator.Validate // Validador de la petición
}

// Service describe la operación de registro del servicio de autenticación.
type Service interface {
	Register(ctx context.Context, req models.DummyRegister) (string, error)
}

// New crea un Handler de registro.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Registrar un usuario
// @Description Da de alta un usuario nuevo y devuelve su UID.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyRegister true "Datos de registro"
// @Success 200 {object} map[string]any "Usuario creado"
// @Failure 400 {object} response.ErrorResponse "JSON incorrecto"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 500 {object} response.ErrorResponse "Error al crear el usuario"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyRegister
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("cuerpo de la petición no válido"))
		return
	}
	log.Info("request body decoded", slog.String("username", req.Username))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	uid, err := h.service.Register(r.Context(), req)
	if err != nil {
		log.Error("failed to register user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("no se pudo crear el usuario"))
		return
	}

	log.Info("user registered", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"uid":      uid,
		"username": req.Username,
	}))
}
