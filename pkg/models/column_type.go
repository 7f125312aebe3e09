package models

// TypeTag identifies the inferred data type of a column or a single value.
type TypeTag string

const (
	TypeUnknown  TypeTag = "unknown"
	TypeNull     TypeTag = "null"
	TypeBoolean  TypeTag = "boolean"
	TypeInteger  TypeTag = "integer"
	TypeFloat    TypeTag = "float"
	TypeDate     TypeTag = "date"
	TypeDatetime TypeTag = "datetime"
	TypeString   TypeTag = "string"
)

// IsNumeric reports whether the tag is one of the numeric types.
func (t TypeTag) IsNumeric() bool {
	return t == TypeInteger || t == TypeFloat
}

// IsTemporal reports whether the tag is a date or datetime type.
func (t TypeTag) IsTemporal() bool {
	return t == TypeDate || t == TypeDatetime
}

// TypeStats holds the partial statistics gathered while scanning a column
// sample. Numeric and string fields are populated only when the dominant
// type warrants them.
type TypeStats struct {
	UniqueCount int     `json:"uniqueCount"`
	UniqueRatio float64 `json:"uniqueRatio"`
	NullCount   int     `json:"nullCount"`
	TotalCount  int     `json:"totalCount"`

	// Numeric columns only.
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Mean *float64 `json:"mean,omitempty"`

	// String columns only.
	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`

	// PotentialCategory marks low-cardinality columns that likely encode
	// an enumerable category.
	PotentialCategory bool `json:"potentialCategory,omitempty"`
}

// ColumnTypeInfo is the result of aggregating per-value type votes for one
// column sample. Immutable once built.
type ColumnTypeInfo struct {
	Type       TypeTag   `json:"type"`
	Confidence int       `json:"confidence"`
	Examples   []any     `json:"examples"`
	Stats      TypeStats `json:"stats"`
}
