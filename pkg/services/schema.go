package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tablescope/tablescope/pkg/adapters/datasource"
)

// SchemaService exposes database structure to the API layer and answers
// the existence checks handlers run before profiling.
type SchemaService interface {
	// GetSchema returns the full table-to-columns map. A table whose
	// column introspection fails appears with an empty column list.
	GetSchema(ctx context.Context) (map[string][]datasource.Column, error)

	// GetTables lists user table names.
	GetTables(ctx context.Context) ([]string, error)

	// TableExists reports whether the named table is present.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// ColumnExists reports whether the named column is declared on the
	// table.
	ColumnExists(ctx context.Context, tableName, columnName string) (bool, error)
}

type schemaService struct {
	extractor datasource.SchemaExtractor
	logger    *zap.Logger
}

// NewSchemaService creates a schema service.
func NewSchemaService(extractor datasource.SchemaExtractor, logger *zap.Logger) SchemaService {
	return &schemaService{
		extractor: extractor,
		logger:    logger.Named("schema"),
	}
}

func (s *schemaService) GetSchema(ctx context.Context) (map[string][]datasource.Column, error) {
	tables, err := s.extractor.GetTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	schema := make(map[string][]datasource.Column, len(tables))
	for _, table := range tables {
		columns, err := s.extractor.GetTableColumns(ctx, table)
		if err != nil {
			// One broken table should not hide the rest of the schema.
			s.logger.Warn("Failed to read columns for table",
				zap.String("table", table),
				zap.Error(err))
			columns = []datasource.Column{}
		}
		schema[table] = columns
	}

	return schema, nil
}

func (s *schemaService) GetTables(ctx context.Context) ([]string, error) {
	return s.extractor.GetTables(ctx)
}

func (s *schemaService) TableExists(ctx context.Context, tableName string) (bool, error) {
	tables, err := s.extractor.GetTables(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list tables: %w", err)
	}
	for _, table := range tables {
		if table == tableName {
			return true, nil
		}
	}
	return false, nil
}

func (s *schemaService) ColumnExists(ctx context.Context, tableName, columnName string) (bool, error) {
	columns, err := s.extractor.GetTableColumns(ctx, tableName)
	if err != nil {
		return false, fmt.Errorf("failed to read columns for %s: %w", tableName, err)
	}
	for _, column := range columns {
		if column.Name == columnName {
			return true, nil
		}
	}
	return false, nil
}

var _ SchemaService = (*schemaService)(nil)
