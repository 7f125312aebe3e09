package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/tablescope/tablescope/pkg/adapters/datasource"
	"github.com/tablescope/tablescope/pkg/apperrors"
	"github.com/tablescope/tablescope/pkg/models"
)

// histogramBuckets is the fixed bucket count for numeric distributions.
const histogramBuckets = 10

// StatisticsService computes on-demand, type-specific statistics for a
// single column. Table and column names must already be sanitized by the
// caller; they are interpolated into SQL directly.
type StatisticsService interface {
	// GenerateColumnStatistics samples the column, classifies it, and runs
	// the statistic queries for the detected type. Non-critical sub-query
	// failures are logged and the corresponding fields omitted.
	GenerateColumnStatistics(ctx context.Context, tableName, columnName string) (*models.ColumnStatistics, error)
}

type statisticsService struct {
	executor datasource.QueryExecutor
	logger   *zap.Logger
}

// NewStatisticsService creates a column statistics service.
func NewStatisticsService(executor datasource.QueryExecutor, logger *zap.Logger) StatisticsService {
	return &statisticsService{
		executor: executor,
		logger:   logger.Named("column-statistics"),
	}
}

func (s *statisticsService) GenerateColumnStatistics(ctx context.Context, tableName, columnName string) (*models.ColumnStatistics, error) {
	// Classify from a single sampled value; a null first value falls
	// through to the generic builder.
	sample, err := s.executor.Query(ctx, fmt.Sprintf("SELECT %s FROM %s LIMIT 1", columnName, tableName))
	if err != nil {
		return nil, fmt.Errorf("failed to sample column %s.%s: %w", tableName, columnName, err)
	}
	if sample.RowCount == 0 {
		return nil, apperrors.ErrNoData
	}

	switch ClassifyValue(sample.Rows[0][columnName]) {
	case models.TypeInteger, models.TypeFloat:
		return s.numericStats(ctx, tableName, columnName)
	case models.TypeString:
		return s.textStats(ctx, tableName, columnName)
	case models.TypeDate, models.TypeDatetime:
		return s.dateStats(ctx, tableName, columnName)
	default:
		return s.genericStats(ctx, tableName, columnName)
	}
}

// baseCounts fills the count/null fields shared by every builder.
// A failure here is critical and aborts the whole statistics request.
func (s *statisticsService) baseCounts(ctx context.Context, result *models.ColumnStatistics, tableName, columnName string) error {
	res, err := s.executor.Query(ctx, fmt.Sprintf(
		"SELECT COUNT(%s) as count, COUNT(*) as total FROM %s", columnName, tableName))
	if err != nil {
		return fmt.Errorf("failed to count column values: %w", err)
	}

	row, ok := firstRow(res)
	if !ok {
		return apperrors.ErrNoData
	}

	total := toInt64(row["total"])
	result.Count = toInt64(row["count"])
	result.Nulls = total - result.Count
	result.NullPercent = roundPercent(result.Nulls, total)
	return nil
}

// distinctCount fills the distinct count fields. Critical.
func (s *statisticsService) distinctCount(ctx context.Context, result *models.ColumnStatistics, tableName, columnName string) error {
	res, err := s.executor.Query(ctx, fmt.Sprintf(
		"SELECT COUNT(DISTINCT %s) as distinct_count FROM %s WHERE %s IS NOT NULL",
		columnName, tableName, columnName))
	if err != nil {
		return fmt.Errorf("failed to count distinct values: %w", err)
	}

	if row, ok := firstRow(res); ok {
		result.DistinctCount = toInt64(row["distinct_count"])
	}
	result.DistinctPercent = roundPercent(result.DistinctCount, result.Count)
	return nil
}

// topValues returns the most frequent values, capped at limit. Critical.
func (s *statisticsService) topValues(ctx context.Context, tableName, columnName string, count int64, limit int) ([]models.ValueCount, error) {
	query := fmt.Sprintf(
		"SELECT %s, COUNT(*) as count FROM %s WHERE %s IS NOT NULL GROUP BY %s ORDER BY count DESC",
		columnName, tableName, columnName, columnName)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	res, err := s.executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query top values: %w", err)
	}

	values := make([]models.ValueCount, 0, len(res.Rows))
	for _, row := range res.Rows {
		n := toInt64(row["count"])
		values = append(values, models.ValueCount{
			Value:   row[columnName],
			Count:   n,
			Percent: roundPercent(n, count),
		})
	}
	return values, nil
}

// numericStats runs the numeric statistic sequence: counts, min/max/mean,
// best-effort percentiles, distinct count, a 10-bucket histogram, and the
// top five values.
func (s *statisticsService) numericStats(ctx context.Context, tableName, columnName string) (*models.ColumnStatistics, error) {
	result := &models.ColumnStatistics{Kind: models.StatKindNumeric}
	numeric := &models.NumericStats{}
	result.Numeric = numeric

	if err := s.baseCounts(ctx, result, tableName, columnName); err != nil {
		return nil, err
	}

	res, err := s.executor.Query(ctx, fmt.Sprintf(
		"SELECT MIN(%s) as min, MAX(%s) as max, AVG(%s) as mean FROM %s WHERE %s IS NOT NULL",
		columnName, columnName, columnName, tableName, columnName))
	if err != nil {
		return nil, fmt.Errorf("failed to query min/max/mean: %w", err)
	}
	if row, ok := firstRow(res); ok {
		numeric.Min = toFloatPtr(row["min"])
		numeric.Max = toFloatPtr(row["max"])
		numeric.Mean = toFloatPtr(row["mean"])
	}

	// Nearest-rank percentiles via ordered scan with offset. Approximate
	// under duplicates; allowed to fail without aborting.
	numeric.Percentile25 = s.percentile(ctx, tableName, columnName, result.Count, 25)
	numeric.Percentile75 = s.percentile(ctx, tableName, columnName, result.Count, 75)

	if err := s.distinctCount(ctx, result, tableName, columnName); err != nil {
		return nil, err
	}

	if numeric.Min != nil && numeric.Max != nil {
		numeric.Histogram = s.histogram(ctx, tableName, columnName, *numeric.Min, *numeric.Max)
	}

	numeric.TopValues, err = s.topValues(ctx, tableName, columnName, result.Count, 5)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// percentile fetches a best-effort nearest-rank percentile. Returns nil on
// failure; the field is simply omitted.
func (s *statisticsService) percentile(ctx context.Context, tableName, columnName string, count int64, pct int64) *float64 {
	if count == 0 {
		return nil
	}
	offset := count*pct/100 - 1
	if offset < 0 {
		offset = 0
	}

	res, err := s.executor.Query(ctx, fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s IS NOT NULL ORDER BY %s LIMIT 1 OFFSET %d",
		columnName, tableName, columnName, columnName, offset))
	if err != nil {
		s.logger.Warn("Skipping percentile calculation",
			zap.String("table", tableName),
			zap.String("column", columnName),
			zap.Int64("percentile", pct),
			zap.Error(err))
		return nil
	}

	row, ok := firstRow(res)
	if !ok {
		return nil
	}
	return toFloatPtr(row[columnName])
}

// histogram computes a fixed-width bucket distribution with one count query
// per bucket. The final bucket includes the exact maximum. A failed bucket
// query is recorded as zero rather than aborting the histogram.
func (s *statisticsService) histogram(ctx context.Context, tableName, columnName string, minVal, maxVal float64) *models.Histogram {
	bucketSize := (maxVal - minVal) / histogramBuckets

	hist := &models.Histogram{
		Buckets: make([]string, 0, histogramBuckets),
		Counts:  make([]int64, 0, histogramBuckets),
	}

	for i := 0; i < histogramBuckets; i++ {
		lower := minVal + bucketSize*float64(i)
		upper := minVal + bucketSize*float64(i+1)

		hist.Buckets = append(hist.Buckets, fmt.Sprintf("%s - %s",
			formatBound(lower), formatBound(upper)))

		// Upper bound is exclusive except for the last bucket, which
		// must include the true maximum.
		comparison := "<"
		if i == histogramBuckets-1 {
			comparison = "<="
		}

		res, err := s.executor.Query(ctx, fmt.Sprintf(
			"SELECT COUNT(*) as count FROM %s WHERE %s >= %s AND %s %s %s",
			tableName, columnName, formatFloat(lower), columnName, comparison, formatFloat(upper)))
		if err != nil {
			s.logger.Warn("Histogram bucket query failed",
				zap.String("table", tableName),
				zap.String("column", columnName),
				zap.Int("bucket", i),
				zap.Error(err))
			hist.Counts = append(hist.Counts, 0)
			continue
		}

		var n int64
		if row, ok := firstRow(res); ok {
			n = toInt64(row["count"])
		}
		hist.Counts = append(hist.Counts, n)
	}

	return hist
}

// textStats runs the text statistic sequence: counts, distinct count,
// length statistics, top values, and a full category breakdown when the
// column looks categorical.
func (s *statisticsService) textStats(ctx context.Context, tableName, columnName string) (*models.ColumnStatistics, error) {
	result := &models.ColumnStatistics{Kind: models.StatKindText}
	text := &models.TextStats{}
	result.Text = text

	if err := s.baseCounts(ctx, result, tableName, columnName); err != nil {
		return nil, err
	}
	if err := s.distinctCount(ctx, result, tableName, columnName); err != nil {
		return nil, err
	}

	// Length stats are non-critical.
	res, err := s.executor.Query(ctx, fmt.Sprintf(
		"SELECT MIN(length(%s)) as min_length, MAX(length(%s)) as max_length, AVG(length(%s)) as avg_length FROM %s WHERE %s IS NOT NULL",
		columnName, columnName, columnName, tableName, columnName))
	if err != nil {
		s.logger.Warn("Skipping length statistics",
			zap.String("table", tableName),
			zap.String("column", columnName),
			zap.Error(err))
	} else if row, ok := firstRow(res); ok {
		text.MinLength = toInt64Ptr(row["min_length"])
		text.MaxLength = toInt64Ptr(row["max_length"])
		text.AvgLength = toFloatPtr(row["avg_length"])
	}

	text.TopValues, err = s.topValues(ctx, tableName, columnName, result.Count, 5)
	if err != nil {
		return nil, err
	}

	// Low distinct count marks the column as categorical; list every
	// category. The unlimited group-by is bounded by the distinct count.
	if result.DistinctCount <= 20 {
		text.IsLikelyCategorical = true
		text.Categories, err = s.topValues(ctx, tableName, columnName, result.Count, 0)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// dateStats runs the date statistic sequence: counts, min/max date, range
// in days, distinct count, and year/month distributions.
func (s *statisticsService) dateStats(ctx context.Context, tableName, columnName string) (*models.ColumnStatistics, error) {
	result := &models.ColumnStatistics{Kind: models.StatKindDate}
	date := &models.DateStats{}
	result.Date = date

	if err := s.baseCounts(ctx, result, tableName, columnName); err != nil {
		return nil, err
	}

	res, err := s.executor.Query(ctx, fmt.Sprintf(
		"SELECT MIN(%s) as min_date, MAX(%s) as max_date FROM %s WHERE %s IS NOT NULL",
		columnName, columnName, tableName, columnName))
	if err != nil {
		return nil, fmt.Errorf("failed to query date range: %w", err)
	}
	if row, ok := firstRow(res); ok {
		date.MinDate = row["min_date"]
		date.MaxDate = row["max_date"]
	}

	// Range in days is non-critical; unparseable values just omit it.
	if minDate, err := parseDateValue(date.MinDate); err == nil {
		if maxDate, err := parseDateValue(date.MaxDate); err == nil {
			rangeDays := int64(math.Round(maxDate.Sub(minDate).Hours() / 24))
			date.RangeDays = &rangeDays
		} else {
			s.logger.Warn("Cannot parse max date", zap.String("column", columnName), zap.Error(err))
		}
	} else {
		s.logger.Warn("Cannot parse min date", zap.String("column", columnName), zap.Error(err))
	}

	if err := s.distinctCount(ctx, result, tableName, columnName); err != nil {
		return nil, err
	}

	s.dateDistributions(ctx, result, date, tableName, columnName)

	return result, nil
}

// dateDistributions fills year and month breakdowns using SQLite's
// strftime. Both are non-critical and omitted together on failure.
func (s *statisticsService) dateDistributions(ctx context.Context, result *models.ColumnStatistics, date *models.DateStats, tableName, columnName string) {
	yearRes, err := s.executor.Query(ctx, fmt.Sprintf(
		"SELECT strftime('%%Y', %s) as year, COUNT(*) as count FROM %s WHERE %s IS NOT NULL GROUP BY year ORDER BY year",
		columnName, tableName, columnName))
	if err != nil {
		s.logger.Warn("Skipping date distributions",
			zap.String("table", tableName),
			zap.String("column", columnName),
			zap.Error(err))
		return
	}

	date.YearDistribution = make([]models.YearCount, 0, len(yearRes.Rows))
	for _, row := range yearRes.Rows {
		n := toInt64(row["count"])
		date.YearDistribution = append(date.YearDistribution, models.YearCount{
			Year:    toString(row["year"]),
			Count:   n,
			Percent: roundPercent(n, result.Count),
		})
	}

	monthRes, err := s.executor.Query(ctx, fmt.Sprintf(
		"SELECT strftime('%%Y-%%m', %s) as month, COUNT(*) as count FROM %s WHERE %s IS NOT NULL GROUP BY month ORDER BY month LIMIT 12",
		columnName, tableName, columnName))
	if err != nil {
		s.logger.Warn("Skipping month distribution",
			zap.String("table", tableName),
			zap.String("column", columnName),
			zap.Error(err))
		return
	}

	date.MonthDistribution = make([]models.MonthCount, 0, len(monthRes.Rows))
	for _, row := range monthRes.Rows {
		n := toInt64(row["count"])
		date.MonthDistribution = append(date.MonthDistribution, models.MonthCount{
			Month:   toString(row["month"]),
			Count:   n,
			Percent: roundPercent(n, result.Count),
		})
	}
}

// genericStats is the fallback sequence for unclassified columns: counts,
// distinct count, and top values only.
func (s *statisticsService) genericStats(ctx context.Context, tableName, columnName string) (*models.ColumnStatistics, error) {
	result := &models.ColumnStatistics{Kind: models.StatKindGeneric}
	generic := &models.GenericStats{}
	result.Generic = generic

	if err := s.baseCounts(ctx, result, tableName, columnName); err != nil {
		return nil, err
	}
	if err := s.distinctCount(ctx, result, tableName, columnName); err != nil {
		return nil, err
	}

	var err error
	generic.TopValues, err = s.topValues(ctx, tableName, columnName, result.Count, 5)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// --- value helpers ---

// dateValueLayouts covers the formats SQLite commonly stores dates in.
var dateValueLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

func parseDateValue(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case string:
		for _, layout := range dateValueLayouts {
			if t, err := time.Parse(layout, d); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date format: %q", d)
	default:
		return time.Time{}, fmt.Errorf("value is not a date: %T", v)
	}
}

func firstRow(res *datasource.QueryResult) (map[string]any, bool) {
	if res == nil || len(res.Rows) == 0 {
		return nil, false
	}
	return res.Rows[0], true
}

func roundPercent(part, whole int64) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func toInt64Ptr(v any) *int64 {
	if v == nil {
		return nil
	}
	n := toInt64(v)
	return &n
}

func toFloatPtr(v any) *float64 {
	if v == nil {
		return nil
	}
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	return &f
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatBound rounds a bucket boundary to two decimals for display.
func formatBound(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}
