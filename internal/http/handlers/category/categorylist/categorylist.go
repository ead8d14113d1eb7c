// Package categorylist implementa el handler HTTP que devuelve el
// catálogo de categorías de cápsulas.
package categorylist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lromnav497/pardespue/internal/http/response"
	"github.com/lromnav497/pardespue/internal/lib/sl"
	"github.com/lromnav497/pardespue/internal/models"
)

// Handler gestiona la consulta del catálogo de categorías.
type Handler struct {
	log     *slog.Logger
	catalog Catalog
}

// Catalog describe la consulta del catálogo de categorías.
type Catalog interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

// New crea un Handler del catálogo de categorías.
func New(log *slog.Logger, catalog Catalog) *Handler {
	return &Handler{log: log, catalog: catalog}
}

// ServeHTTP godoc
// @Summary Listar las categorías
// @Description Devuelve el catálogo de categorías disponible para clasificar cápsulas.
// @Tags Categories
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.Category} "Catálogo de categorías"
// @Failure 500 {object} response.ErrorResponse "Error interno"
// @Router /categories [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		log.Error("failed to list categories", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("no se pudo consultar el catálogo"))
		return
	}

	render.JSON(w, r, response.OKWithData(categories))
}
