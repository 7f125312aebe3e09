package handlers

import (
	"context"

	"github.com/tablescope/tablescope/pkg/adapters/datasource"
	"github.com/tablescope/tablescope/pkg/models"
)

// fakeSchemaService is a scriptable services.SchemaService.
type fakeSchemaService struct {
	schema     map[string][]datasource.Column
	schemaErr  error
	tables     []string
	tablesErr  error
	columnsErr error
}

func (f *fakeSchemaService) GetSchema(ctx context.Context) (map[string][]datasource.Column, error) {
	return f.schema, f.schemaErr
}

func (f *fakeSchemaService) GetTables(ctx context.Context) ([]string, error) {
	return f.tables, f.tablesErr
}

func (f *fakeSchemaService) TableExists(ctx context.Context, tableName string) (bool, error) {
	if f.tablesErr != nil {
		return false, f.tablesErr
	}
	for _, table := range f.tables {
		if table == tableName {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSchemaService) ColumnExists(ctx context.Context, tableName, columnName string) (bool, error) {
	if f.columnsErr != nil {
		return false, f.columnsErr
	}
	for _, col := range f.schema[tableName] {
		if col.Name == columnName {
			return true, nil
		}
	}
	return false, nil
}

// fakeProfiler is a scriptable services.ProfilerService.
type fakeProfiler struct {
	profile *models.TableProfile
	types   map[string]models.ColumnTypeInfo
	err     error
}

func (f *fakeProfiler) DetectColumnTypes(ctx context.Context, tableName string) (map[string]models.ColumnTypeInfo, error) {
	return f.types, f.err
}

func (f *fakeProfiler) GetTableProfile(ctx context.Context, tableName string) (*models.TableProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

// fakeStatistics is a scriptable services.StatisticsService.
type fakeStatistics struct {
	stats *models.ColumnStatistics
	err   error
}

func (f *fakeStatistics) GenerateColumnStatistics(ctx context.Context, tableName, columnName string) (*models.ColumnStatistics, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

// fakeQueryService is a scriptable services.QueryService.
type fakeQueryService struct {
	result *datasource.QueryResult
	err    error
}

func (f *fakeQueryService) Execute(ctx context.Context, sqlQuery string) (*datasource.QueryResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}
