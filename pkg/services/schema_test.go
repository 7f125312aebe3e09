package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tablescope/tablescope/pkg/adapters/datasource"
)

// fakeExtractor is a scriptable SchemaExtractor.
type fakeExtractor struct {
	tables     []string
	tablesErr  error
	columns    map[string][]datasource.Column
	columnsErr map[string]error
}

func (f *fakeExtractor) GetTables(ctx context.Context) ([]string, error) {
	return f.tables, f.tablesErr
}

func (f *fakeExtractor) GetTableColumns(ctx context.Context, tableName string) ([]datasource.Column, error) {
	if err, ok := f.columnsErr[tableName]; ok {
		return nil, err
	}
	return f.columns[tableName], nil
}

func TestGetSchema(t *testing.T) {
	extractor := &fakeExtractor{
		tables: []string{"orders", "users"},
		columns: map[string][]datasource.Column{
			"orders": {{Name: "id", Type: "INTEGER", PrimaryKey: true}},
			"users":  {{Name: "email", Type: "TEXT"}},
		},
	}
	svc := NewSchemaService(extractor, zap.NewNop())

	schema, err := svc.GetSchema(context.Background())
	require.NoError(t, err)

	require.Len(t, schema, 2)
	assert.Equal(t, "id", schema["orders"][0].Name)
	assert.Equal(t, "email", schema["users"][0].Name)
}

func TestGetSchema_BrokenTableDegrades(t *testing.T) {
	extractor := &fakeExtractor{
		tables: []string{"good", "broken"},
		columns: map[string][]datasource.Column{
			"good": {{Name: "id", Type: "INTEGER"}},
		},
		columnsErr: map[string]error{
			"broken": errors.New("corrupt page"),
		},
	}
	svc := NewSchemaService(extractor, zap.NewNop())

	schema, err := svc.GetSchema(context.Background())
	require.NoError(t, err)

	require.Len(t, schema, 2)
	assert.Len(t, schema["good"], 1)
	assert.Empty(t, schema["broken"])
}

func TestTableExists(t *testing.T) {
	extractor := &fakeExtractor{tables: []string{"orders"}}
	svc := NewSchemaService(extractor, zap.NewNop())

	exists, err := svc.TableExists(context.Background(), "orders")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.TableExists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestColumnExists(t *testing.T) {
	extractor := &fakeExtractor{
		tables: []string{"orders"},
		columns: map[string][]datasource.Column{
			"orders": {{Name: "id"}, {Name: "status"}},
		},
	}
	svc := NewSchemaService(extractor, zap.NewNop())

	exists, err := svc.ColumnExists(context.Background(), "orders", "status")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.ColumnExists(context.Background(), "orders", "nope")
	require.NoError(t, err)
	assert.False(t, exists)
}
