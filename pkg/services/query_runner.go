package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/tablescope/tablescope/pkg/adapters/datasource"
	"github.com/tablescope/tablescope/pkg/apperrors"
	"github.com/tablescope/tablescope/pkg/logging"
)

// QueryService runs caller-supplied SQL against the explored database.
type QueryService interface {
	// Execute runs the statement and returns its results. An empty or
	// blank statement yields ErrQueryRequired.
	Execute(ctx context.Context, sqlQuery string) (*datasource.QueryResult, error)
}

type queryService struct {
	executor datasource.QueryExecutor
	logger   *zap.Logger
}

// NewQueryService creates a query service.
func NewQueryService(executor datasource.QueryExecutor, logger *zap.Logger) QueryService {
	return &queryService{
		executor: executor,
		logger:   logger.Named("query"),
	}
}

func (s *queryService) Execute(ctx context.Context, sqlQuery string) (*datasource.QueryResult, error) {
	sqlQuery = strings.TrimSpace(sqlQuery)
	if sqlQuery == "" {
		return nil, apperrors.ErrQueryRequired
	}

	s.logger.Debug("Executing query", zap.String("sql", logging.SanitizeQuery(sqlQuery)))
	return s.executor.Query(ctx, sqlQuery)
}

var _ QueryService = (*queryService)(nil)
