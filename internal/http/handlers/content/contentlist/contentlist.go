// Package contentlist implementa el handler HTTP que lista los
// contenidos de una cápsula.
package contentlist

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
	"github.com/lromnav497/pardespue/internal/services/content"
)

// Handler gestiona el listado de contenidos.
type Handler struct {
	log     *slog.Logger // Logger de operaciones y errores
	service Service      // Lógica de negocio de contenidos
}

// Service describe el listado de contenidos tras la puerta de acceso.
type Service interface {
	List(ctx context.Context, capsuleID int, userUID, siteRole string) ([]*models.Content, error)
}

// New crea un Handler de listado de contenidos.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Item es un contenido en su forma API.
type Item struct {
	ID           int       `json:"id"`
	Type         string    `json:"type"`
	Path         string    `json:"path"`
	CreationDate time.Time `json:"creation_date"`
}

// ServeHTTP godoc
// @Summary Listar los contenidos de una cápsula
// @Description Devuelve los contenidos si el solicitante puede ver la cápsula: tras la apertura con la puerta de lectura, antes solo el creador y los colaboradores.
// @Tags Contents
// @Produce  json
// @Param id path int true "ID de la cápsula"
// @Success 200 {object} map[string]any "Contenidos"
// @Failure 400 {object} response.ErrorResponse "ID incorrecto"
// @Failure 403 {object} response.ErrorResponse "Acceso denegado"
// @Failure 404 {object} response.ErrorResponse "No existe"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /capsules/{id}/contents [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.list"
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

	contents, err := h.service.List(r.Context(), capsuleID, userUID, siteRole)
	if err != nil {
		switch {
		case errors.Is(err, content.ErrCapsuleNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("la cápsula no existe"))
		case access.IsDenial(err):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("no tienes acceso a esta cápsula"))
		default:
			log.Error("failed to list contents", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo obtener el listado"))
		}
		return
	}

	items := make([]Item, 0, len(contents))
	for _, c := range contents {
		items = append(items, Item{
			ID:           c.ID,
			Type:         c.Type,
			Path:         c.Path,
			CreationDate: c.CreationDate,
		})
	}

	log.Info("contents listed", slog.Int("capsule_id", capsuleID), slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"items": items,
	}))
}
