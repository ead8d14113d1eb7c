// Package commentcreate implementa el handler HTTP que publica un
// comentario en una cápsula abierta.
package commentcreate

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
	"github.com/lromnav497/pardespue/internal/services/comment"
)

// Handler gestiona la publicación de comentarios.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describe la publicación de un comentario.
type Service interface {
	Create(ctx context.Context, capsuleID int, userUID, siteRole, text string) (int, error)
}

// New crea un Handler de publicación de comentarios.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Publicar un comentario
// @Description Publica un comentario en una cápsula ya abierta que el usuario puede leer.
// @Tags Comments
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID de la cápsula"
// @Param request body models.DummyComment true "Texto del comentario"
// @Success 200 {object} response.Response "Comentario publicado"
// @Failure 400 {object} response.ErrorResponse "JSON o ID incorrecto"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 403 {object} response.ErrorResponse "Sin acceso a la cápsula"
// @Failure 404 {object} response.ErrorResponse "No existe"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /capsules/{id}/comments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.comment.create"
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

	var req models.DummyComment
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

	id, err := h.service.Create(r.Context(), capsuleID, userUID, siteRole, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, comment.ErrCapsuleNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("la cápsula no existe"))
		case errors.Is(err, access.ErrNotYetOpen):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("la cápsula aún no está abierta"))
		case access.IsDenial(err):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("no tienes acceso a esta cápsula"))
		default:
			log.Error("failed to create comment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo publicar el comentario"))
		}
		return
	}

	log.Info("comment created", slog.Int("comment_id", id), slog.Int("capsule_id", capsuleID))
	render.JSON(w, r, response.OKWithData(map[string]any{"id": id}))
}
