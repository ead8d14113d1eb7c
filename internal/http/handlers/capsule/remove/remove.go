// Package remove implementa el handler HTTP de borrado de cápsulas.
//
// El borrado arrastra contenidos, destinatarios, comentarios, "me
// gusta" y notificaciones en una única transacción.
package remove

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
	"github.com/lromnav497/pardespue/internal/services/capsule"
)

// Handler gestiona las peticiones de borrado de cápsulas.
type Handler struct {
	log     *slog.Logger // Logger de operaciones y errores
	service Service      // Lógica de negocio de cápsulas
}

// Service describe la operación de borrado tras la puerta de acceso.
type Service interface {
	Delete(ctx context.Context, id int, userUID, siteRole string) error
}

// New crea un Handler de borrado.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Borrar una cápsula
// @Description Elimina una cápsula y todo lo que cuelga de ella. Solo el creador o un administrador pueden hacerlo.
// @Tags Capsules
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID de la cápsula"
// @Success 200 {object} response.Response "Cápsula eliminada"
// @Failure 400 {object} response.ErrorResponse "ID incorrecto"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 403 {object} response.ErrorResponse "Borrado denegado"
// @Failure 404 {object} response.ErrorResponse "No existe"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /capsules/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.capsule.remove"
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

	userUID := middlewarectx.UID(r.Context())
	if userUID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("sin autenticar"))
		return
	}
	siteRole := middlewarectx.SiteRole(r.Context())

	if err := h.service.Delete(r.Context(), id, userUID, siteRole); err != nil {
		switch {
		case errors.Is(err, capsule.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("la cápsula no existe"))
		case access.IsDenial(err):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("no puedes borrar esta cápsula"))
		default:
			log.Error("failed to delete capsule", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo borrar la cápsula"))
		}
		return
	}

	log.Info("capsule deleted", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
