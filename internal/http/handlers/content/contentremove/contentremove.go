// Package contentremove implementa el handler HTTP que elimina un
// contenido de una cápsula aún cerrada.
package contentremove

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
	"github.com/lromnav497/pardespue/internal/services/access"
	"github.com/lromnav497/pardespue/internal/services/content"
)

// Handler gestiona la baja de contenidos.
type Handler struct {
	log     *slog.Logger // Logger de operaciones y errores
	service Service      // Lógica de negocio de contenidos
}

// Service describe la baja de contenidos tras la puerta de edición.
type Service interface {
	Remove(ctx context.Context, contentID int, userUID, siteRole string) error
}

// New crea un Handler de baja de contenidos.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Eliminar un contenido
// @Description Elimina un contenido de su cápsula mientras esta siga cerrada.
// @Tags Contents
// @Produce  json
// @Security BearerAuth
// @Param contentID path int true "ID del contenido"
// @Success 200 {object} response.Response "Contenido eliminado"
// @Failure 400 {object} response.ErrorResponse "ID incorrecto"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 403 {object} response.ErrorResponse "Edición denegada"
// @Failure 404 {object} response.ErrorResponse "No existe"
// @Failure 409 {object} response.ErrorResponse "La cápsula ya está abierta"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /contents/{contentID} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	contentID, err := strconv.Atoi(chi.URLParam(r, "contentID"))
	if err != nil {
		log.Error("invalid content id", sl.Err(err))
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

	if err := h.service.Remove(r.Context(), contentID, userUID, siteRole); err != nil {
		switch {
		case errors.Is(err, content.ErrContentNotFound), errors.Is(err, content.ErrCapsuleNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("el contenido no existe"))
		case errors.Is(err, access.ErrAlreadyOpened):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("una cápsula abierta ya no se puede editar"))
		case access.IsDenial(err):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("no puedes editar esta cápsula"))
		default:
			log.Error("failed to remove content", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo eliminar el contenido"))
		}
		return
	}

	log.Info("content removed", slog.Int("id", contentID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": contentID,
	}))
}
