// Package login implementa el handler HTTP de inicio de sesión.
//
// Valida las credenciales contra el servicio de autenticación y
// devuelve el JWT de sesión junto con los datos básicos del usuario.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/lromnav497/pardespue/internal/http/response"
	"github.com/lromnav497/pardespue/internal/lib/sl"
	"github.com/lromnav497/pardespue/internal/models"
	"github.com/lromnav497/pardespue/internal/services/auth"
)

// Handler gestiona las peticiones de inicio de sesión.
type Handler struct {
	log      *slog.Logger        // Logger de operaciones y errores
	service  Service             // Lógica de negocio del inicio de sesión
	validate *validator.Validate // Validador de la petición
}

// Service describe la operación de inicio de sesión.
type Service interface {
	Login(ctx context.Context, username, password string) (string, *models.User, error)
}

// New crea un Handler de inicio de sesión.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Iniciar sesión
// @Description Comprueba las credenciales y devuelve el token JWT de sesión.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyLogin true "Credenciales"
// @Success 200 {object} map[string]any "Sesión iniciada"
// @Failure 400 {object} response.ErrorResponse "JSON incorrecto"
// @Failure 401 {object} response.ErrorResponse "Credenciales incorrectas"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyLogin
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

	token, user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			log.Info("login rejected", slog.String("username", req.Username))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("usuario o contraseña incorrectos"))
		case errors.Is(err, auth.ErrUserBanned):
			log.Info("banned user login attempt", slog.String("username", req.Username))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("la cuenta está bloqueada"))
		default:
			log.Error("login failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo iniciar sesión"))
		}
		return
	}

	log.Info("login success", slog.String("username", user.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token":    token,
		"username": user.Username,
		"role":     user.Role,
		"uid":      user.UID,
	}))
}
