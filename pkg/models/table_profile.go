package models

// ProfileColumn merges schema metadata with sample-derived type detection
// for one column of a profiled table.
type ProfileColumn struct {
	Name         string    `json:"name"`
	DeclaredType string    `json:"declaredType"`
	DetectedType TypeTag   `json:"detectedType"`
	Confidence   int       `json:"confidence"`
	Examples     []any     `json:"examples"`
	PrimaryKey   bool      `json:"primaryKey"`
	Nullable     bool      `json:"nullable"`
	NullCount    int       `json:"nullCount"`
	UniqueCount  int       `json:"uniqueCount"`
	Stats        TypeStats `json:"stats"`
}

// TableProfile is the table-level profiling summary. RowCount reflects the
// full table; type detection is based on a bounded sample. Built fresh per
// request, never cached. Invariant: len(Columns) == ColumnCount.
type TableProfile struct {
	TableName   string          `json:"tableName"`
	RowCount    int64           `json:"rowCount"`
	ColumnCount int             `json:"columnCount"`
	Columns     []ProfileColumn `json:"columns"`
}
