// Package commentupdate implementa el handler HTTP que corrige el texto
// de un comentario propio.
package commentupdate

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
	"github.com/lromnav497/pardespue/internal/services/comment"
)

// Handler gestiona la edición de comentarios.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describe la edición de un comentario.
type Service interface {
	Update(ctx context.Context, commentID int, userUID, text string) error
}

// New crea un Handler de edición de comentarios.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Editar un comentario
// @Description Sustituye el texto de un comentario. Solo el autor puede editarlo.
// @Tags Comments
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param commentID path int true "ID del comentario"
// @Param request body models.DummyComment true "Texto nuevo"
// @Success 200 {object} response.Response "Comentario editado"
// @Failure 400 {object} response.ErrorResponse "JSON o ID incorrecto"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 403 {object} response.ErrorResponse "No eres el autor"
// @Failure 404 {object} response.ErrorResponse "No existe"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /comments/{commentID} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.comment.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	commentID, err := strconv.Atoi(chi.URLParam(r, "commentID"))
	if err != nil {
		log.Error("invalid comment id", sl.Err(err))
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

	if err := h.service.Update(r.Context(), commentID, userUID, req.Text); err != nil {
		switch {
		case errors.Is(err, comment.ErrCommentNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("el comentario no existe"))
		case errors.Is(err, comment.ErrNotAuthor):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("solo el autor puede editar el comentario"))
		default:
			log.Error("failed to update comment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo editar el comentario"))
		}
		return
	}

	log.Info("comment updated", slog.Int("comment_id", commentID))
	render.JSON(w, r, response.OK())
}
