package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"hoopsight/internal/featurespec"
	"hoopsight/pkg/logger"
)

// CatalogHandler serves read-only views of the compiled stat catalog.
type CatalogHandler struct {
	catalog *featurespec.Catalog
	logger  *logger.Logger
}

// NewCatalogHandler creates the catalog endpoints handler.
func NewCatalogHandler(catalog *featurespec.Catalog, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: log}
}

// ListStats returns every stat's declarative spec.
// GET /api/catalog/stats
func (h *CatalogHandler) ListStats(w http.ResponseWriter, r *http.Request) {
	names := h.catalog.Names()
	specs := make([]featurespec.StatSpec, 0, len(names))
	for _, name := range names {
		if def, ok := h.catalog.Lookup(name); ok {
			specs = append(specs, def.StatSpec)
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(specs),
		"stats": specs,
	})
}

// GetStat returns one stat's spec. Derived names like "points_net"
// resolve to their base stat's entry.
// GET /api/catalog/stats/{name}
func (h *CatalogHandler) GetStat(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	def, derived, ok := h.catalog.Resolve(name)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown stat: "+name)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"stat":    def.StatSpec,
		"derived": derived,
	})
}
