package sqlite

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tablescope/tablescope/pkg/adapters/datasource"
)

// GetTables returns all user table names, excluding sqlite internals.
func (d *DB) GetTables(ctx context.Context) ([]string, error) {
	const query = "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'"

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	tables := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}

	return tables, nil
}

// GetTableColumns returns declared column metadata via PRAGMA table_info.
// When the pragma fails or yields nothing, falls back to inferring bare
// column names from a one-row sample; if that also fails, returns an empty
// slice so callers can degrade instead of aborting.
func (d *DB) GetTableColumns(ctx context.Context, tableName string) ([]datasource.Column, error) {
	columns, err := d.tableInfo(ctx, tableName)
	if err == nil && len(columns) > 0 {
		return columns, nil
	}
	if err != nil {
		d.logger.Warn("PRAGMA table_info failed, falling back to sample row",
			zap.String("table", tableName),
			zap.Error(err))
	}

	columns, err = d.columnsFromSample(ctx, tableName)
	if err != nil {
		d.logger.Warn("Sample-based column inference failed",
			zap.String("table", tableName),
			zap.Error(err))
		return []datasource.Column{}, nil
	}
	return columns, nil
}

// tableInfo reads declared columns from PRAGMA table_info.
func (d *DB) tableInfo(ctx context.Context, tableName string) ([]datasource.Column, error) {
	query := fmt.Sprintf("PRAGMA table_info('%s')", tableName)

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute table_info pragma: %w", err)
	}
	defer rows.Close()

	columns := make([]datasource.Column, 0)
	for rows.Next() {
		var (
			cid          int
			name         string
			declaredType string
			notNull      int
			defaultValue any
			pk           int
		)
		if err := rows.Scan(&cid, &name, &declaredType, &notNull, &defaultValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}
		columns = append(columns, datasource.Column{
			Name:         name,
			Type:         declaredType,
			NotNull:      notNull == 1,
			DefaultValue: normalizeValue(defaultValue),
			PrimaryKey:   pk == 1,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column info: %w", err)
	}

	return columns, nil
}

// columnsFromSample infers bare column names from a single sampled row.
// Types, nullability, and key flags are unknown via this path.
func (d *DB) columnsFromSample(ctx context.Context, tableName string) ([]datasource.Column, error) {
	result, err := d.Query(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 1", tableName))
	if err != nil {
		return nil, err
	}

	columns := make([]datasource.Column, 0, len(result.Columns))
	for _, name := range result.Columns {
		columns = append(columns, datasource.Column{
			Name: name,
			Type: "unknown",
		})
	}
	return columns, nil
}
