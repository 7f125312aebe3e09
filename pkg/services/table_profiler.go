package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tablescope/tablescope/pkg/adapters/datasource"
	"github.com/tablescope/tablescope/pkg/models"
)

// ProfilerService builds whole-table profiles by sampling rows and running
// type detection over each column.
type ProfilerService interface {
	// DetectColumnTypes samples the table and infers a type for every
	// column found in the sample.
	DetectColumnTypes(ctx context.Context, tableName string) (map[string]models.ColumnTypeInfo, error)

	// GetTableProfile combines the exact row count, declared schema, and
	// sample-based type detection into a single profile.
	GetTableProfile(ctx context.Context, tableName string) (*models.TableProfile, error)
}

type profilerService struct {
	executor    datasource.QueryExecutor
	schema      datasource.SchemaExtractor
	sampleLimit int
	logger      *zap.Logger
}

// NewProfilerService creates a table profiler. sampleLimit caps the rows
// pulled per table; zero or negative falls back to the default.
func NewProfilerService(executor datasource.QueryExecutor, schema datasource.SchemaExtractor, sampleLimit int, logger *zap.Logger) ProfilerService {
	if sampleLimit <= 0 {
		sampleLimit = datasource.SampleLimit
	}
	return &profilerService{
		executor:    executor,
		schema:      schema,
		sampleLimit: sampleLimit,
		logger:      logger.Named("table-profiler"),
	}
}

func (s *profilerService) DetectColumnTypes(ctx context.Context, tableName string) (map[string]models.ColumnTypeInfo, error) {
	_, types, err := s.sampleColumnTypes(ctx, tableName)
	return types, err
}

// sampleColumnTypes pulls a bounded sample and runs type detection per
// column. The returned slice preserves the sample's column order. A table
// with no rows yields an empty mapping: there are no values to classify,
// even though the result set still names the columns.
func (s *profilerService) sampleColumnTypes(ctx context.Context, tableName string) ([]string, map[string]models.ColumnTypeInfo, error) {
	sample, err := s.executor.Query(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", tableName, s.sampleLimit))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sample table %s: %w", tableName, err)
	}
	if sample.RowCount == 0 {
		return nil, map[string]models.ColumnTypeInfo{}, nil
	}

	types := make(map[string]models.ColumnTypeInfo, len(sample.Columns))
	for _, column := range sample.Columns {
		// Null values are excluded from the vote; nullCount/totalCount
		// reflect the sample, not the full table.
		values := make([]any, 0, len(sample.Rows))
		nulls := 0
		for _, row := range sample.Rows {
			if row[column] == nil {
				nulls++
				continue
			}
			values = append(values, row[column])
		}

		info := DetectDataType(values)
		info.Stats.NullCount = nulls
		info.Stats.TotalCount = len(sample.Rows)
		types[column] = info
	}

	return sample.Columns, types, nil
}

func (s *profilerService) GetTableProfile(ctx context.Context, tableName string) (*models.TableProfile, error) {
	countRes, err := s.executor.Query(ctx, fmt.Sprintf("SELECT COUNT(*) as count FROM %s", tableName))
	if err != nil {
		return nil, fmt.Errorf("failed to count rows in %s: %w", tableName, err)
	}
	var rowCount int64
	if row, ok := firstRow(countRes); ok {
		rowCount = toInt64(row["count"])
	}

	sampleOrder, types, err := s.sampleColumnTypes(ctx, tableName)
	if err != nil {
		return nil, err
	}

	// No sampled rows means no detected types and an empty column list,
	// regardless of what the declared schema says.
	if len(types) == 0 {
		return &models.TableProfile{
			TableName:   tableName,
			RowCount:    rowCount,
			ColumnCount: 0,
			Columns:     []models.ProfileColumn{},
		}, nil
	}

	// Declared schema drives column order and metadata when available;
	// otherwise fall back to the sample's column order.
	declared, err := s.schema.GetTableColumns(ctx, tableName)
	if err != nil {
		s.logger.Warn("Schema introspection failed, using sampled columns only",
			zap.String("table", tableName),
			zap.Error(err))
		declared = nil
	}

	columns := make([]models.ProfileColumn, 0, len(types))
	if len(declared) > 0 {
		for _, col := range declared {
			columns = append(columns, buildProfileColumn(col.Name, &col, types))
		}
		// Sampled columns missing from the declared schema still get
		// profiled, appended after the declared ones.
		declaredNames := make(map[string]struct{}, len(declared))
		for _, col := range declared {
			declaredNames[col.Name] = struct{}{}
		}
		for _, name := range sampleOrder {
			if _, ok := declaredNames[name]; !ok {
				columns = append(columns, buildProfileColumn(name, nil, types))
			}
		}
	} else {
		for _, name := range sampleOrder {
			columns = append(columns, buildProfileColumn(name, nil, types))
		}
	}

	return &models.TableProfile{
		TableName:   tableName,
		RowCount:    rowCount,
		ColumnCount: len(columns),
		Columns:     columns,
	}, nil
}

// buildProfileColumn merges declared metadata (when present) with the
// sample-derived type info for one column.
func buildProfileColumn(name string, declared *datasource.Column, types map[string]models.ColumnTypeInfo) models.ProfileColumn {
	info, sampled := types[name]
	if !sampled {
		// Declared but absent from the sample (e.g. empty table).
		info = models.ColumnTypeInfo{
			Type:     models.TypeUnknown,
			Examples: []any{},
		}
	}

	column := models.ProfileColumn{
		Name:         name,
		DetectedType: info.Type,
		Confidence:   info.Confidence,
		Examples:     info.Examples,
		NullCount:    info.Stats.NullCount,
		UniqueCount:  info.Stats.UniqueCount,
		Stats:        info.Stats,
	}
	if declared != nil {
		column.DeclaredType = declared.Type
		column.PrimaryKey = declared.PrimaryKey
		column.Nullable = !declared.NotNull
	} else {
		column.Nullable = true
	}
	return column
}

var _ ProfilerService = (*profilerService)(nil)
