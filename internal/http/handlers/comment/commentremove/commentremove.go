// Package commentremove implementa el handler HTTP que borra un
// comentario propio o, para un administrador, cualquiera.
package commentremove

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
	"github.com/lromnav497/pardespue/internal/services/comment"
)

// Handler gestiona el borrado de comentarios.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describe el borrado de un comentario.
type Service interface {
	Delete(ctx context.Context, commentID int, userUID, siteRole string) error
}

// New crea un Handler de borrado de comentarios.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Borrar un comentario
// @Description Elimina un comentario. Lo puede hacer su autor o un administrador.
// @Tags Comments
// @Produce  json
// @Security BearerAuth
// @Param commentID path int true "ID del comentario"
// @Success 200 {object} response.Response "Comentario borrado"
// @Failure 400 {object} response.ErrorResponse "ID incorrecto"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 403 {object} response.ErrorResponse "No eres el autor"
// @Failure 404 {object} response.ErrorResponse "No existe"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /comments/{commentID} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.comment.remove"
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

	userUID := middlewarectx.UID(r.Context())
	if userUID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("sin autenticar"))
		return
	}
	siteRole := middlewarectx.SiteRole(r.Context())

	if err := h.service.Delete(r.Context(), commentID, userUID, siteRole); err != nil {
		switch {
		case errors.Is(err, comment.ErrCommentNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("el comentario no existe"))
		case errors.Is(err, comment.ErrNotAuthor):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("solo el autor puede borrar el comentario"))
		default:
			log.Error("failed to remove comment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo borrar el comentario"))
		}
		return
	}

	log.Info("comment removed", slog.Int("comment_id", commentID))
	render.JSON(w, r, response.OK())
}
