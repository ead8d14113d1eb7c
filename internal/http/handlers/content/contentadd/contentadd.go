// Package contentadd implementa el handler HTTP que registra un
// contenido en una cápsula aún cerrada.
package contentadd

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
	"github.com/lromnav497/pardespue/internal/services/content"
)

// Handler gestiona el alta de contenidos.
type Handler struct {
	log      *slog.Logger        // Logger de operaciones y errores
	service  Service             // Lógica de negocio de contenidos
	validate *validator.Validate // Validador de la petición
}

// Service describe el alta de contenidos tras la puerta de edición.
type Service interface {
	Add(ctx context.Context, capsuleID int, userUID, siteRole string, req models.DummyContent) (int, error)
}

// New crea un Handler de alta de contenidos.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Añadir contenido a una cápsula
// @Description Registra un contenido (imagen, vídeo, audio o fichero) en una cápsula aún cerrada. Pueden hacerlo el creador y los colaboradores con plan Premium.
// @Tags Contents
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID de la cápsula"
// @Param request body models.DummyContent true "Datos del contenido"
// @Success 200 {object} map[string]any "Contenido registrado"
// @Failure 400 {object} response.ErrorResponse "JSON o ID incorrecto"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 403 {object} response.ErrorResponse "Edición denegada"
// @Failure 404 {object} response.ErrorResponse "No existe"
// @Failure 409 {object} response.ErrorResponse "La cápsula ya está abierta"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /capsules/{id}/contents [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.add"
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

	var req models.DummyContent
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

	userUID := middlewarectx.UID(r.Context())
	if userUID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("sin autenticar"))
		return
	}
	siteRole := middlewarectx.SiteRole(r.Context())

	id, err := h.service.Add(r.Context(), capsuleID, userUID, siteRole, req)
	if err != nil {
		switch {
		case errors.Is(err, content.ErrCapsuleNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("la cápsula no existe"))
		case errors.Is(err, access.ErrAlreadyOpened):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("una cápsula abierta ya no se puede editar"))
		case access.IsDenial(err):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("no puedes editar esta cápsula"))
		default:
			log.Error("failed to add content", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo registrar el contenido"))
		}
		return
	}

	log.Info("content added", slog.Int("id", id), slog.Int("capsule_id", capsuleID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
