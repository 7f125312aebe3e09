package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/tablescope/tablescope/pkg/adapters/datasource"
)

// DB provides SQLite query execution and schema introspection over a single
// database file.
type DB struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open connects to the SQLite database at path. The file must already
// exist; this tool explores databases, it does not create them.
func Open(path string, logger *zap.Logger) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database file not accessible: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// Single connection: profiling issues its sub-queries sequentially and
	// SQLite handles one writer anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to sqlite database: %w", err)
	}

	return &DB{
		db:     db,
		logger: logger.Named("sqlite"),
	}, nil
}

// Query runs a SQL statement and returns the results as ordered row maps.
func (d *DB) Query(ctx context.Context, sqlQuery string) (*datasource.QueryResult, error) {
	rows, err := d.db.QueryContext(ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			rowMap[col] = normalizeValue(values[i])
		}
		resultRows = append(resultRows, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return &datasource.QueryResult{
		Columns:  columns,
		Rows:     resultRows,
		RowCount: len(resultRows),
	}, nil
}

// Close releases the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// normalizeValue maps driver values onto the canonical value domain.
// The sqlite3 driver returns TEXT as []byte depending on declared type.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// Ensure DB implements the collaborator contracts at compile time.
var (
	_ datasource.QueryExecutor   = (*DB)(nil)
	_ datasource.SchemaExtractor = (*DB)(nil)
)
