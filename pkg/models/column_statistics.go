package models

// StatKind discriminates which statistics block a ColumnStatistics carries.
type StatKind string

const (
	StatKindNumeric StatKind = "numeric"
	StatKindText    StatKind = "text"
	StatKindDate    StatKind = "date"
	StatKindGeneric StatKind = "generic"
)

// ValueCount is one entry in a frequency breakdown.
type ValueCount struct {
	Value   any   `json:"value"`
	Count   int64 `json:"count"`
	Percent int   `json:"percent"`
}

// Histogram holds an equal-width bucket distribution for a numeric column.
// Buckets and Counts are parallel slices.
type Histogram struct {
	Buckets []string `json:"buckets"`
	Counts  []int64  `json:"counts"`
}

// NumericStats is the numeric-specific statistics block.
// Percentiles are best-effort nearest-rank values computed via an ordered
// scan with a row offset; they may be omitted when the query fails.
type NumericStats struct {
	Min          *float64     `json:"min"`
	Max          *float64     `json:"max"`
	Mean         *float64     `json:"mean"`
	Percentile25 *float64     `json:"percentile25,omitempty"`
	Percentile75 *float64     `json:"percentile75,omitempty"`
	Histogram    *Histogram   `json:"histogram,omitempty"`
	TopValues    []ValueCount `json:"topValues"`
}

// TextStats is the text-specific statistics block. Categories is populated
// only when the column looks categorical (distinct count <= 20).
type TextStats struct {
	MinLength           *int64       `json:"minLength,omitempty"`
	MaxLength           *int64       `json:"maxLength,omitempty"`
	AvgLength           *float64     `json:"avgLength,omitempty"`
	TopValues           []ValueCount `json:"topValues"`
	IsLikelyCategorical bool         `json:"isLikelyCategorical,omitempty"`
	Categories          []ValueCount `json:"categories,omitempty"`
}

// YearCount is one entry in a per-year date distribution.
type YearCount struct {
	Year    string `json:"year"`
	Count   int64  `json:"count"`
	Percent int    `json:"percent"`
}

// MonthCount is one entry in a per-month date distribution.
type MonthCount struct {
	Month   string `json:"month"`
	Count   int64  `json:"count"`
	Percent int    `json:"percent"`
}

// DateStats is the date/datetime-specific statistics block. RangeDays is
// omitted when the stored values cannot be parsed as dates.
type DateStats struct {
	MinDate           any          `json:"minDate"`
	MaxDate           any          `json:"maxDate"`
	RangeDays         *int64       `json:"rangeDays,omitempty"`
	YearDistribution  []YearCount  `json:"yearDistribution,omitempty"`
	MonthDistribution []MonthCount `json:"monthDistribution,omitempty"`
}

// GenericStats is the fallback block for columns that resist classification.
type GenericStats struct {
	TopValues []ValueCount `json:"topValues"`
}

// ColumnStatistics is the full on-demand statistics record for one column.
// Exactly one of the kind-specific blocks is non-nil, matching Kind.
// Recomputed on every request; never cached.
type ColumnStatistics struct {
	Kind            StatKind `json:"kind"`
	Count           int64    `json:"count"`
	Nulls           int64    `json:"nulls"`
	NullPercent     int      `json:"nullPercent"`
	DistinctCount   int64    `json:"distinctCount"`
	DistinctPercent int      `json:"distinctPercent"`

	Numeric *NumericStats `json:"numeric,omitempty"`
	Text    *TextStats    `json:"text,omitempty"`
	Date    *DateStats    `json:"date,omitempty"`
	Generic *GenericStats `json:"generic,omitempty"`
}
