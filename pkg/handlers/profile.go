package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/tablescope/tablescope/pkg/apperrors"
	"github.com/tablescope/tablescope/pkg/services"
)

// ProfileHandler handles table profiling, column statistics, and
// visualization recommendation HTTP requests.
type ProfileHandler struct {
	schemaService services.SchemaService
	profiler      services.ProfilerService
	statistics    services.StatisticsService
	logger        *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(schemaService services.SchemaService, profiler services.ProfilerService, statistics services.StatisticsService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		schemaService: schemaService,
		profiler:      profiler,
		statistics:    statistics,
		logger:        logger.Named("profile-handler"),
	}
}

// RegisterRoutes registers the profile handler's routes on the given mux.
func (h *ProfileHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/profile/{tableName}", h.GetTableProfile)
	mux.HandleFunc("GET /api/visualizations/{tableName}", h.GetVisualizations)
	mux.HandleFunc("GET /api/stats/{tableName}/{columnName}", h.GetColumnStatistics)
}

// GetTableProfile handles GET /api/profile/{tableName} requests.
func (h *ProfileHandler) GetTableProfile(w http.ResponseWriter, r *http.Request) {
	tableName, ok := h.resolveTable(w, r)
	if !ok {
		return
	}

	profile, err := h.profiler.GetTableProfile(r.Context(), tableName)
	if err != nil {
		h.writeServiceError(w, err, "profile_failed", "Failed to profile table",
			zap.String("table", tableName))
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: profile}); err != nil {
		h.logger.Error("Failed to encode profile response", zap.Error(err))
	}
}

// GetVisualizations handles GET /api/visualizations/{tableName} requests.
// Profiles the table and derives chart recommendations from the profile.
func (h *ProfileHandler) GetVisualizations(w http.ResponseWriter, r *http.Request) {
	tableName, ok := h.resolveTable(w, r)
	if !ok {
		return
	}

	profile, err := h.profiler.GetTableProfile(r.Context(), tableName)
	if err != nil {
		h.writeServiceError(w, err, "profile_failed", "Failed to profile table",
			zap.String("table", tableName))
		return
	}

	suggestions := services.SuggestVisualizations(profile)
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: suggestions}); err != nil {
		h.logger.Error("Failed to encode visualizations response", zap.Error(err))
	}
}

// GetColumnStatistics handles GET /api/stats/{tableName}/{columnName}
// requests.
func (h *ProfileHandler) GetColumnStatistics(w http.ResponseWriter, r *http.Request) {
	tableName, ok := h.resolveTable(w, r)
	if !ok {
		return
	}
	columnName, ok := ParseColumnName(w, r, h.logger)
	if !ok {
		return
	}

	exists, err := h.schemaService.ColumnExists(r.Context(), tableName, columnName)
	if err != nil {
		h.writeServiceError(w, err, "schema_failed", "Failed to check column",
			zap.String("table", tableName), zap.String("column", columnName))
		return
	}
	if !exists {
		if err := ErrorResponse(w, http.StatusNotFound, "column_not_found", "Column not found"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	stats, err := h.statistics.GenerateColumnStatistics(r.Context(), tableName, columnName)
	if err != nil {
		h.writeServiceError(w, err, "statistics_failed", "Failed to compute column statistics",
			zap.String("table", tableName), zap.String("column", columnName))
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: stats}); err != nil {
		h.logger.Error("Failed to encode statistics response", zap.Error(err))
	}
}

// resolveTable parses, sanitizes, and existence-checks the table name.
// Writes the appropriate error response and returns false on any failure.
func (h *ProfileHandler) resolveTable(w http.ResponseWriter, r *http.Request) (string, bool) {
	tableName, ok := ParseTableName(w, r, h.logger)
	if !ok {
		return "", false
	}

	exists, err := h.schemaService.TableExists(r.Context(), tableName)
	if err != nil {
		h.writeServiceError(w, err, "schema_failed", "Failed to check table",
			zap.String("table", tableName))
		return "", false
	}
	if !exists {
		if err := ErrorResponse(w, http.StatusNotFound, "table_not_found", "Table not found"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return "", false
	}
	return tableName, true
}

// writeServiceError maps service failures onto HTTP responses. An empty
// column or table yields a successful HTTP status with a failure payload
// so the frontend can render it as a normal empty state.
func (h *ProfileHandler) writeServiceError(w http.ResponseWriter, err error, code, message string, fields ...zap.Field) {
	if errors.Is(err, apperrors.ErrNoData) {
		if err := WriteJSON(w, http.StatusOK, ApiResponse{
			Success: false,
			Error:   "no_data",
			Message: "No data available",
		}); err != nil {
			h.logger.Error("Failed to encode no-data response", zap.Error(err))
		}
		return
	}

	h.logger.Error(message, append(fields, zap.Error(err))...)
	if err := ErrorResponse(w, http.StatusInternalServerError, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
