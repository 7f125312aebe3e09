package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/tablescope/tablescope/pkg/services"
)

// SchemaHandler handles schema discovery HTTP requests.
type SchemaHandler struct {
	schemaService services.SchemaService
	logger        *zap.Logger
}

// NewSchemaHandler creates a new SchemaHandler.
func NewSchemaHandler(schemaService services.SchemaService, logger *zap.Logger) *SchemaHandler {
	return &SchemaHandler{
		schemaService: schemaService,
		logger:        logger.Named("schema-handler"),
	}
}

// RegisterRoutes registers the schema handler's routes on the given mux.
func (h *SchemaHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/schema", h.GetSchema)
	mux.HandleFunc("GET /api/tables", h.GetTables)
}

// GetSchema handles GET /api/schema requests.
// Returns every user table with its declared columns.
func (h *SchemaHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := h.schemaService.GetSchema(r.Context())
	if err != nil {
		h.logger.Error("Failed to read schema", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "schema_failed", "Failed to read database schema"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: schema}); err != nil {
		h.logger.Error("Failed to encode schema response", zap.Error(err))
	}
}

// GetTables handles GET /api/tables requests.
func (h *SchemaHandler) GetTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.schemaService.GetTables(r.Context())
	if err != nil {
		h.logger.Error("Failed to list tables", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "tables_failed", "Failed to list tables"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: tables}); err != nil {
		h.logger.Error("Failed to encode tables response", zap.Error(err))
	}
}
