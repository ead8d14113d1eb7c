// Package liketoggle implementa el handler HTTP que alterna el "me
// gusta" del usuario sobre una cápsula abierta.
package liketoggle

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
	"github.com/lromnav497/pardespue/internal/services/like"
)

// Handler gestiona el alternado de "me gusta".
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describe el alternado del "me gusta" de un usuario.
type Service interface {
	Toggle(ctx context.Context, capsuleID int, userUID, siteRole string) (bool, error)
}

// New crea un Handler de "me gusta".
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Alternar "me gusta"
// @Description Marca la cápsula con "me gusta" o lo retira si ya estaba marcada. Solo sobre cápsulas abiertas que el usuario puede leer.
// @Tags Likes
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID de la cápsula"
// @Success 200 {object} response.Response "Estado resultante en data.liked"
// @Failure 400 {object} response.ErrorResponse "ID incorrecto"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 403 {object} response.ErrorResponse "Sin acceso a la cápsula"
// @Failure 404 {object} response.ErrorResponse "No existe"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /capsules/{id}/like [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.like.toggle"
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
	if userUID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("sin autenticar"))
		return
	}
	siteRole := middlewarectx.SiteRole(r.Context())

	liked, err := h.service.Toggle(r.Context(), capsuleID, userUID, siteRole)
	if err != nil {
		switch {
		case errors.Is(err, like.ErrCapsuleNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("la cápsula no existe"))
		case errors.Is(err, access.ErrNotYetOpen):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("la cápsula aún no está abierta"))
		case access.IsDenial(err):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("no tienes acceso a esta cápsula"))
		default:
			log.Error("failed to toggle like", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo registrar el me gusta"))
		}
		return
	}

	log.Info("like toggled", slog.Int("capsule_id", capsuleID), slog.Bool("liked", liked))
	render.JSON(w, r, response.OKWithData(map[string]any{"liked": liked}))
}
