package services

import (
	"fmt"

	"github.com/tablescope/tablescope/pkg/models"
)

// pieCategoryLimit caps the distinct values a categorical column may have
// to be readable as a pie chart.
const pieCategoryLimit = 10

// SuggestVisualizations derives chart recommendations from a table profile.
// The function is pure and deterministic: recommendations are generated in
// fixed rule order (bar, pie, histogram, line, scatter) and never deduped,
// so callers can rely on stable output for the same profile.
func SuggestVisualizations(profile *models.TableProfile) []models.VisualizationRecommendation {
	suggestions := make([]models.VisualizationRecommendation, 0)
	if profile == nil || len(profile.Columns) == 0 {
		return suggestions
	}

	var numericColumns, categoricalColumns, dateColumns []models.ProfileColumn
	for _, col := range profile.Columns {
		if col.DetectedType.IsNumeric() {
			numericColumns = append(numericColumns, col)
		}
		if isCategorical(col) {
			categoricalColumns = append(categoricalColumns, col)
		}
		if col.DetectedType.IsTemporal() {
			dateColumns = append(dateColumns, col)
		}
	}

	// Bar charts: every categorical x numeric pairing; when no numerics
	// exist, fall back to a record count per category.
	for _, catCol := range categoricalColumns {
		for _, numCol := range numericColumns {
			suggestions = append(suggestions, models.VisualizationRecommendation{
				Type:        models.ChartBar,
				Title:       fmt.Sprintf("%s by %s", catCol.Name, numCol.Name),
				XColumn:     catCol.Name,
				YColumn:     numCol.Name,
				Description: fmt.Sprintf("Bar chart showing %s values grouped by %s", numCol.Name, catCol.Name),
				Priority:    models.PriorityHigh,
			})
		}
		if len(numericColumns) == 0 {
			suggestions = append(suggestions, models.VisualizationRecommendation{
				Type:        models.ChartBar,
				Title:       fmt.Sprintf("Count by %s", catCol.Name),
				Description: fmt.Sprintf("Bar chart showing count of records by %s", catCol.Name),
				Query: fmt.Sprintf("SELECT %s, COUNT(*) as count FROM %s GROUP BY %s ORDER BY count DESC",
					catCol.Name, profile.TableName, catCol.Name),
				Priority: models.PriorityHigh,
			})
		}
	}

	// Pie charts: only categorical columns with few enough values.
	for _, catCol := range categoricalColumns {
		if catCol.UniqueCount == 0 || catCol.UniqueCount > pieCategoryLimit {
			continue
		}
		for _, numCol := range numericColumns {
			suggestions = append(suggestions, models.VisualizationRecommendation{
				Type:        models.ChartPie,
				Title:       fmt.Sprintf("Distribution of %s by %s", numCol.Name, catCol.Name),
				LabelColumn: catCol.Name,
				ValueColumn: numCol.Name,
				Description: fmt.Sprintf("Pie chart showing distribution of %s across %s categories", numCol.Name, catCol.Name),
				Priority:    models.PriorityMedium,
			})
		}
		if len(numericColumns) == 0 {
			suggestions = append(suggestions, models.VisualizationRecommendation{
				Type:        models.ChartPie,
				Title:       fmt.Sprintf("Distribution by %s", catCol.Name),
				Description: fmt.Sprintf("Pie chart showing distribution of records by %s", catCol.Name),
				Query: fmt.Sprintf("SELECT %s, COUNT(*) as count FROM %s GROUP BY %s",
					catCol.Name, profile.TableName, catCol.Name),
				Priority: models.PriorityMedium,
			})
		}
	}

	// Histograms: one per numeric column.
	for _, numCol := range numericColumns {
		suggestions = append(suggestions, models.VisualizationRecommendation{
			Type:        models.ChartHistogram,
			Title:       fmt.Sprintf("Distribution of %s", numCol.Name),
			Column:      numCol.Name,
			Description: fmt.Sprintf("Histogram showing the distribution of %s values", numCol.Name),
			Priority:    models.PriorityMedium,
		})
	}

	// Line charts: every date x numeric pairing; count-over-time fallback.
	for _, dateCol := range dateColumns {
		for _, numCol := range numericColumns {
			suggestions = append(suggestions, models.VisualizationRecommendation{
				Type:        models.ChartLine,
				Title:       fmt.Sprintf("%s over time", numCol.Name),
				XColumn:     dateCol.Name,
				YColumn:     numCol.Name,
				Description: fmt.Sprintf("Line chart showing %s values over time", numCol.Name),
				Priority:    models.PriorityHigh,
			})
		}
		if len(numericColumns) == 0 {
			suggestions = append(suggestions, models.VisualizationRecommendation{
				Type:        models.ChartLine,
				Title:       "Count over time",
				Description: "Line chart showing record count over time",
				Query: fmt.Sprintf("SELECT %s, COUNT(*) as count FROM %s GROUP BY %s",
					dateCol.Name, profile.TableName, dateCol.Name),
				Priority: models.PriorityHigh,
			})
		}
	}

	// Scatter plots: every unordered pair of numeric columns.
	for i := 0; i < len(numericColumns); i++ {
		for j := i + 1; j < len(numericColumns); j++ {
			suggestions = append(suggestions, models.VisualizationRecommendation{
				Type:        models.ChartScatter,
				Title:       fmt.Sprintf("Relationship between %s and %s", numericColumns[i].Name, numericColumns[j].Name),
				XColumn:     numericColumns[i].Name,
				YColumn:     numericColumns[j].Name,
				Description: fmt.Sprintf("Scatter plot showing relationship between %s and %s", numericColumns[i].Name, numericColumns[j].Name),
				Priority:    models.PriorityLow,
			})
		}
	}

	return suggestions
}

// isCategorical reports whether a column should be treated as a grouping
// dimension: either the profiler flagged it, or it is a low-cardinality
// string column.
func isCategorical(col models.ProfileColumn) bool {
	if col.Stats.PotentialCategory {
		return true
	}
	return col.DetectedType == models.TypeString &&
		col.UniqueCount > 0 && col.UniqueCount < 20
}
