// Package listuser implementa el handler HTTP del listado de cápsulas
// de un usuario: las suyas propias, o las de cualquiera si quien
// pregunta es administrador.
package listuser

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lromnav497/pardespue/internal/http/handlers/capsule/read"
	"github.com/lromnav497/pardespue/internal/http/middlewarectx"
	"github.com/lromnav497/pardespue/internal/http/response"
	"github.com/lromnav497/pardespue/internal/lib/sl"
	"github.com/lromnav497/pardespue/internal/models"
)

// Handler gestiona el listado de cápsulas por usuario.
type Handler struct {
	log     *slog.Logger // Logger de operaciones y errores
	service Service      // Lógica de negocio de cápsulas
}

// Service describe la operación de listado por usuario.
type Service interface {
	ListByUser(ctx context.Context, userUID string) ([]*models.Capsule, error)
}

// New crea un Handler del listado por usuario.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Cápsulas de un usuario
// @Description Devuelve todas las cápsulas de un usuario, abiertas o no, las más recientes primero. Solo el propio usuario o un administrador.
// @Tags Capsules
// @Produce  json
// @Param userUID path string true "UID del usuario"
// @Security BearerAuth
// @Success 200 {object} map[string]any "Listado de cápsulas"
// @Failure 401 {object} response.ErrorResponse "Sin autenticar"
// @Failure 403 {object} response.ErrorResponse "Cápsulas de otro usuario"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /capsules/user/{userUID} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.capsule.listuser"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actorUID := middlewarectx.UID(r.Context())
	if actorUID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("sin autenticar"))
		return
	}

	userUID := chi.URLParam(r, "userUID")
	if userUID != actorUID && middlewarectx.SiteRole(r.Context()) != models.SiteRoleAdmin {
		log.Warn("attempt to list another user's capsules", slog.String("user_uid", userUID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("solo puedes ver tus propias cápsulas"))
		return
	}

	capsules, err := h.service.ListByUser(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list capsules", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("no se pudo obtener el listado"))
		return
	}

	items := make([]read.CapsuleResponse, 0, len(capsules))
	for _, c := range capsules {
		items = append(items, read.NewCapsuleResponse(c))
	}

	log.Info("user capsules listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"items": items,
	}))
}
