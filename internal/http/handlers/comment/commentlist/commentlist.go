// Package commentlist implementa el handler HTTP que lista los
// comentarios de una cápsula abierta.
package commentlist

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lromnav497/pardespue/internal/http/middlewarectx"
	"github.com/lromnav497/pardespue/internal/http/response"
	"github.com/lromnav497/pardespue/internal/lib/sl"
	"github.com/lromnav497/pardespue/internal/models"
	"github.com/lromnav497/pardespue/internal/services/access"
	"github.com/lromnav497/pardespue/internal/services/comment"
)

// Handler gestiona el listado de comentarios.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describe la consulta de los comentarios de una cápsula.
type Service interface {
	List(ctx context.Context, capsuleID int, userUID, siteRole string) ([]*models.CommentView, error)
}

// New crea un Handler de listado de comentarios.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Item es un comentario en la respuesta del listado.
type Item struct {
	ID             int       `json:"id"`
	UserUID        string    `json:"user_uid"`
	AuthorUsername string    `json:"author_username"`
	Text           string    `json:"text"`
	CreationDate   time.Time `json:"creation_date"`
}

// ServeHTTP godoc
// @Summary Listar los comentarios
// @Description Devuelve los comentarios de una cápsula ya abierta que el usuario puede leer, del más antiguo al más reciente.
// @Tags Comments
// @Produce  json
// @Param id path int true "ID de la cápsula"
// @Success 200 {object} response.Response{data=[]Item} "Listado de comentarios"
// @Failure 400 {object} response.ErrorResponse "ID incorrecto"
// @Failure 403 {object} response.ErrorResponse "Sin acceso a la cápsula"
// @Failure 404 {object} response.ErrorResponse "No existe"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /capsules/{id}/comments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.comment.list"
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

	userUID := middlewarectx.UID(r.Context())
	siteRole := middlewarectx.SiteRole(r.Context())

	comments, err := h.service.List(r.Context(), capsuleID, userUID, siteRole)
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
			log.Error("failed to list comments", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudieron consultar los comentarios"))
		}
		return
	}

	items := make([]Item, 0, len(comments))
	for _, c := range comments {
		items = append(items, Item{
			ID:             c.ID,
			UserUID:        c.UserUID,
			AuthorUsername: c.AuthorUsername,
			Text:           c.Text,
			CreationDate:   c.CreationDate,
		})
	}

	render.JSON(w, r, response.OKWithData(items))
}
