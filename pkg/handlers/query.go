package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/tablescope/tablescope/pkg/apperrors"
	"github.com/tablescope/tablescope/pkg/services"
)

// QueryRequest is the payload for POST /api/query.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryHandler handles ad-hoc SQL execution requests.
type QueryHandler struct {
	queryService services.QueryService
	logger       *zap.Logger
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(queryService services.QueryService, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{
		queryService: queryService,
		logger:       logger.Named("query-handler"),
	}
}

// RegisterRoutes registers the query handler's routes on the given mux.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/query", h.Execute)
}

// Execute handles POST /api/query requests.
func (h *QueryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.queryService.Execute(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, apperrors.ErrQueryRequired) {
			if err := ErrorResponse(w, http.StatusBadRequest, "query_required", "Query is required"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		// Query text is user input; a failing statement is a client
		// error, not a server fault.
		h.logger.Warn("Query execution failed", zap.Error(err))
		if err := ErrorResponse(w, http.StatusBadRequest, "query_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: result}); err != nil {
		h.logger.Error("Failed to encode query response", zap.Error(err))
	}
}
