package datasource

import "context"

// SampleLimit is the hard cap on rows pulled when sampling a table for
// type detection. This bounds memory use and keeps profiling requests
// predictable on large tables.
const SampleLimit = 1000

// QueryExecutor executes SQL against the explored database.
// Each implementation owns its connection and must be closed when done.
//
// Implementations are expected to hold a single connection: profiling and
// statistics requests issue their sub-queries strictly sequentially, and a
// single connection bounds concurrent load on the database.
type QueryExecutor interface {
	// Query runs a SQL statement and returns results as ordered row
	// mappings. Value domain is nil | int64 | float64 | string | bool.
	Query(ctx context.Context, sqlQuery string) (*QueryResult, error)

	// Close releases the database connection.
	Close() error
}

// SchemaExtractor introspects the explored database's schema.
type SchemaExtractor interface {
	// GetTables returns all user table names, excluding internal tables.
	GetTables(ctx context.Context) ([]string, error)

	// GetTableColumns returns the declared columns for a table.
	// Returns an empty slice (not an error) when introspection fails;
	// callers fall back to sample-derived column names.
	GetTableColumns(ctx context.Context, tableName string) ([]Column, error)
}

// Column describes a declared table column.
type Column struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	NotNull      bool   `json:"notNull"`
	DefaultValue any    `json:"defaultValue"`
	PrimaryKey   bool   `json:"primaryKey"`
}

// QueryResult holds the results of a query execution. Columns preserves
// the result's column order; Rows map column names to values.
type QueryResult struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"rowCount"`
}
