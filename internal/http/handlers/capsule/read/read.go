// Package read implementa el handler HTTP de lectura de una cápsula.
//
// La petición puede ser anónima; si llega token, el middleware opcional
// deja la identidad en el contexto y la puerta de acceso decide con
// ella. Una lectura admitida de cápsula abierta suma una visualización.
package read

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
	"github.com/lromnav497/pardespue/internal/services/capsule"
)

// Handler gestiona las peticiones de lectura de cápsulas.
type Handler struct {
	log     *slog.Logger // Logger de operaciones y errores
	service Service      // Lógica de negocio de cápsulas
}

// Service describe la operación de lectura tras la puerta de acceso.
type Service interface {
	Get(ctx context.Context, id int, userUID, siteRole string) (*models.Capsule, error)
}

// New crea un Handler de lectura.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// CapsuleResponse es la cápsula tal y como se expone por la API. La
// contraseña nunca viaja; solo el indicador de si existe.
type CapsuleResponse struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	CreationDate   time.Time `json:"creation_date"`
	OpeningDate    time.Time `json:"opening_date"`
	Privacy        string    `json:"privacy"`
	HasPassword    bool      `json:"has_password"`
	CreatorUID     string    `json:"creator_uid"`
	Tags           string    `json:"tags,omitempty"`
	CategoryID     int       `json:"category_id"`
	CoverContentID *int      `json:"cover_content_id,omitempty"`
	Likes          int       `json:"likes"`
	Views          int       `json:"views"`
}

// NewCapsuleResponse convierte una cápsula de dominio en su forma API.
func NewCapsuleResponse(c *models.Capsule) CapsuleResponse {
	return CapsuleResponse{
		ID:             c.ID,
		Title:          c.Title,
		Description:    c.Description,
		CreationDate:   c.CreationDate,
		OpeningDate:    c.OpeningDate,
		Privacy:        c.Privacy,
		HasPassword:    c.PasswordHash != nil,
		CreatorUID:     c.CreatorUID,
		Tags:           c.Tags,
		CategoryID:     c.CategoryID,
		CoverContentID: c.CoverContentID,
		Likes:          c.Likes,
		Views:          c.Views,
	}
}

// ServeHTTP godoc
// @Summary Leer una cápsula
// @Description Devuelve una cápsula si la puerta de acceso lo permite: antes de abrirse solo su creador la ve; después depende de la privacidad.
// @Tags Capsules
// @Produce  json
// @Param id path int true "ID de la cápsula"
// @Success 200 {object} CapsuleResponse "Cápsula"
// @Failure 400 {object} response.ErrorResponse "ID incorrecto"
// @Failure 403 {object} response.ErrorResponse "Acceso denegado"
// @Failure 404 {object} response.ErrorResponse "No existe"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /capsules/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.capsule.read"
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
	siteRole := middlewarectx.SiteRole(r.Context())

	c, err := h.service.Get(r.Context(), id, userUID, siteRole)
	if err != nil {
		switch {
		case errors.Is(err, capsule.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("la cápsula no existe"))
		case errors.Is(err, access.ErrNotYetOpen):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("la cápsula aún no está abierta"))
		case access.IsDenial(err):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("no tienes acceso a esta cápsula"))
		default:
			log.Error("failed to read capsule", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("no se pudo leer la cápsula"))
		}
		return
	}

	log.Info("capsule read", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(NewCapsuleResponse(c)))
}
