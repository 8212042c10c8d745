package handler

import (
	"net/http"
	"time"

	"filevault/internal/catalog"
	"filevault/internal/httputil"
)

// MetaHandler serves static metadata and liveness
type MetaHandler struct {
	catalog *catalog.Catalog
}

// NewMetaHandler creates a new metadata handler
func NewMetaHandler(cat *catalog.Catalog) *MetaHandler {
	return &MetaHandler{catalog: cat}
}

// TypesResponse lists the item kinds and how uploads are classified
type TypesResponse struct {
	ItemTypes []catalog.ItemTypeInfo `json:"item_types"`
	MimeRules []catalog.RuleInfo     `json:"mime_rules"`
}

// GetTypes returns the item type catalog
// GET /api/files/types
func (h *MetaHandler) GetTypes(w http.ResponseWriter, r *http.Request) {
	httputil.RespondData(w, http.StatusOK, TypesResponse{
		ItemTypes: h.catalog.ItemTypes(),
		MimeRules: h.catalog.Rules(),
	}, "Item types retrieved successfully")
}

// HealthCheck returns a simple health status
// GET /health
func (h *MetaHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}
