// Package listpublic implementa el handler HTTP del listado público de
// cápsulas abiertas, con paginación, búsqueda y filtro por categoría.
package listpublic

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lromnav497/pardespue/internal/http/response"
	"github.com/lromnav497/pardespue/internal/lib/sl"
	"github.com/lromnav497/pardespue/internal/services/capsule"
)

// Handler gestiona las peticiones del listado público.
type Handler struct {
	log     *slog.Logger // Logger de operaciones y errores
	service Service      // Lógica de negocio de cápsulas
}

// Service describe la operación de listado público.
type Service interface {
	ListPublic(ctx context.Context, page, pageSize int, category, search string) (*capsule.PublicPage, error)
}

// New crea un Handler del listado público.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Item es una fila del listado público en su forma API.
type Item struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	OpeningDate    time.Time `json:"opening_date"`
	AuthorUsername string    `json:"author_username"`
	CategoryName   string    `json:"category_name"`
	Tags           string    `json:"tags,omitempty"`
	Likes          int       `json:"likes"`
	Views          int       `json:"views"`
}

// ServeHTTP godoc
// @Summary Listado público de cápsulas
// @Description Devuelve las cápsulas públicas ya abiertas, paginadas. Admite búsqueda libre (título, etiquetas, autor, categoría o fecha) y filtro por categoría.
// @Tags Capsules
// @Produce  json
// @Param page query int false "Página (desde 1)"
// @Param pageSize query int false "Tamaño de página (máx. 100)"
// @Param category query string false "Nombre de la categoría"
// @Param search query string false "Texto de búsqueda"
// @Success 200 {object} map[string]any "Página del listado"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /capsules/public [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.capsule.listpublic"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	category := r.URL.Query().Get("category")
	search := r.URL.Query().Get("search")

	result, err := h.service.ListPublic(r.Context(), page, pageSize, category, search)
	if err != nil {
		log.Error("failed to list public capsules", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("no se pudo obtener el listado"))
		return
	}

	items := make([]Item, 0, len(result.Items))
	for _, v := range result.Items {
		items = append(items, Item{
			ID:             v.ID,
			Title:          v.Title,
			Description:    v.Description,
			OpeningDate:    v.OpeningDate,
			AuthorUsername: v.AuthorUsername,
			CategoryName:   v.CategoryName,
			Tags:           v.Tags,
			Likes:          v.Likes,
			Views:          v.Views,
		})
	}

	log.Info("public capsules listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"items":       items,
		"page":        result.Page,
		"total_pages": result.TotalPages,
	}))
}
