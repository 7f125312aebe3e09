package models

// ChartType identifies the kind of chart a recommendation proposes.
type ChartType string

const (
	ChartBar       ChartType = "bar"
	ChartPie       ChartType = "pie"
	ChartHistogram ChartType = "histogram"
	ChartLine      ChartType = "line"
	ChartScatter   ChartType = "scatter"
)

// Priority ranks how strongly a recommendation is suggested.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// VisualizationRecommendation is a suggested chart specification derived
// purely from a table profile. Axis bindings depend on the chart type;
// fallback recommendations carry a precomputed Query instead.
type VisualizationRecommendation struct {
	Type        ChartType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`

	XColumn     string `json:"xColumn,omitempty"`
	YColumn     string `json:"yColumn,omitempty"`
	LabelColumn string `json:"labelColumn,omitempty"`
	ValueColumn string `json:"valueColumn,omitempty"`
	Column      string `json:"column,omitempty"`
	Query       string `json:"query,omitempty"`
}
