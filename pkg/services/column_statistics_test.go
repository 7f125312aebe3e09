package services

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tablescope/tablescope/pkg/adapters/datasource"
	"github.com/tablescope/tablescope/pkg/adapters/datasource/sqlite"
	"github.com/tablescope/tablescope/pkg/apperrors"
)

// newTestDB creates a throwaway SQLite database, applies the given
// statements, and returns an open adapter over it.
func newTestDB(t *testing.T, statements ...string) *sqlite.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	seed, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	for _, stmt := range statements {
		_, err := seed.Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, seed.Close())

	db, err := sqlite.Open(path, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// failingExecutor wraps a real executor and fails any query containing one
// of the configured fragments.
type failingExecutor struct {
	inner datasource.QueryExecutor
	fail  []string
}

func (f *failingExecutor) Query(ctx context.Context, sqlQuery string) (*datasource.QueryResult, error) {
	for _, fragment := range f.fail {
		if strings.Contains(sqlQuery, fragment) {
			return nil, fmt.Errorf("injected failure for %q", fragment)
		}
	}
	return f.inner.Query(ctx, sqlQuery)
}

func (f *failingExecutor) Close() error { return f.inner.Close() }

func TestGenerateColumnStatistics_Numeric(t *testing.T) {
	db := newTestDB(t,
		"CREATE TABLE measurements (value REAL)",
		"INSERT INTO measurements VALUES (1),(2),(3),(4),(5),(6),(7),(8),(9),(10)",
	)
	svc := NewStatisticsService(db, zap.NewNop())

	stats, err := svc.GenerateColumnStatistics(context.Background(), "measurements", "value")
	require.NoError(t, err)

	assert.Equal(t, int64(10), stats.Count)
	assert.Equal(t, int64(0), stats.Nulls)
	assert.Equal(t, 0, stats.NullPercent)
	assert.Equal(t, int64(10), stats.DistinctCount)
	assert.Equal(t, 100, stats.DistinctPercent)

	require.NotNil(t, stats.Numeric)
	numeric := stats.Numeric
	require.NotNil(t, numeric.Min)
	require.NotNil(t, numeric.Max)
	require.NotNil(t, numeric.Mean)
	assert.Equal(t, 1.0, *numeric.Min)
	assert.Equal(t, 10.0, *numeric.Max)
	assert.Equal(t, 5.5, *numeric.Mean)

	require.NotNil(t, numeric.Histogram)
	assert.Len(t, numeric.Histogram.Buckets, 10)
	assert.Len(t, numeric.Histogram.Counts, 10)
	var total int64
	for _, n := range numeric.Histogram.Counts {
		total += n
	}
	// Every row lands in some bucket; the max lands in the last one.
	assert.Equal(t, int64(10), total)
	assert.Equal(t, int64(1), numeric.Histogram.Counts[9])

	assert.Len(t, numeric.TopValues, 5)
}

func TestGenerateColumnStatistics_NumericPercentiles(t *testing.T) {
	db := newTestDB(t,
		"CREATE TABLE measurements (value INTEGER)",
		"INSERT INTO measurements VALUES (1),(2),(3),(4),(5),(6),(7),(8),(9),(10),(11),(12),(13),(14),(15),(16),(17),(18),(19),(20)",
	)
	svc := NewStatisticsService(db, zap.NewNop())

	stats, err := svc.GenerateColumnStatistics(context.Background(), "measurements", "value")
	require.NoError(t, err)

	numeric := stats.Numeric
	require.NotNil(t, numeric.Percentile25)
	require.NotNil(t, numeric.Percentile75)
	assert.Equal(t, 5.0, *numeric.Percentile25)
	assert.Equal(t, 15.0, *numeric.Percentile75)
}

func TestGenerateColumnStatistics_PercentileFailureIsTolerated(t *testing.T) {
	db := newTestDB(t,
		"CREATE TABLE measurements (value INTEGER)",
		"INSERT INTO measurements VALUES (1),(2),(3),(4),(5)",
	)
	executor := &failingExecutor{inner: db, fail: []string{"OFFSET"}}
	svc := NewStatisticsService(executor, zap.NewNop())

	stats, err := svc.GenerateColumnStatistics(context.Background(), "measurements", "value")
	require.NoError(t, err)

	assert.Nil(t, stats.Numeric.Percentile25)
	assert.Nil(t, stats.Numeric.Percentile75)
	// Core statistics still present.
	assert.Equal(t, int64(5), stats.Count)
	require.NotNil(t, stats.Numeric.Min)
}

func TestGenerateColumnStatistics_CriticalFailurePropagates(t *testing.T) {
	db := newTestDB(t,
		"CREATE TABLE measurements (value INTEGER)",
		"INSERT INTO measurements VALUES (1),(2),(3)",
	)
	executor := &failingExecutor{inner: db, fail: []string{"COUNT(DISTINCT"}}
	svc := NewStatisticsService(executor, zap.NewNop())

	_, err := svc.GenerateColumnStatistics(context.Background(), "measurements", "value")
	require.Error(t, err)
}

func TestGenerateColumnStatistics_Text(t *testing.T) {
	db := newTestDB(t,
		"CREATE TABLE items (category TEXT)",
		"INSERT INTO items VALUES ('a'),('a'),('b'),('c')",
	)
	svc := NewStatisticsService(db, zap.NewNop())

	stats, err := svc.GenerateColumnStatistics(context.Background(), "items", "category")
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.Count)
	assert.Equal(t, int64(3), stats.DistinctCount)

	require.NotNil(t, stats.Text)
	text := stats.Text
	require.NotNil(t, text.MinLength)
	require.NotNil(t, text.MaxLength)
	assert.Equal(t, int64(1), *text.MinLength)
	assert.Equal(t, int64(1), *text.MaxLength)

	assert.True(t, text.IsLikelyCategorical)
	require.Len(t, text.Categories, 3)
	assert.Equal(t, "a", text.Categories[0].Value)
	assert.Equal(t, int64(2), text.Categories[0].Count)
	assert.Equal(t, 50, text.Categories[0].Percent)

	var total int64
	for _, c := range text.Categories {
		total += c.Count
	}
	assert.Equal(t, int64(4), total)
}

func TestGenerateColumnStatistics_TextHighCardinalityNotCategorical(t *testing.T) {
	statements := []string{"CREATE TABLE items (name TEXT)"}
	for i := 0; i < 30; i++ {
		statements = append(statements, fmt.Sprintf("INSERT INTO items VALUES ('name-%d')", i))
	}
	db := newTestDB(t, statements...)
	svc := NewStatisticsService(db, zap.NewNop())

	stats, err := svc.GenerateColumnStatistics(context.Background(), "items", "name")
	require.NoError(t, err)

	assert.False(t, stats.Text.IsLikelyCategorical)
	assert.Nil(t, stats.Text.Categories)
	assert.Len(t, stats.Text.TopValues, 5)
}

func TestGenerateColumnStatistics_Date(t *testing.T) {
	db := newTestDB(t,
		"CREATE TABLE events (occurred_at TEXT)",
		"INSERT INTO events VALUES ('2024-01-01'),('2024-01-15'),('2024-02-01'),('2024-03-10')",
	)
	svc := NewStatisticsService(db, zap.NewNop())

	stats, err := svc.GenerateColumnStatistics(context.Background(), "events", "occurred_at")
	require.NoError(t, err)

	require.NotNil(t, stats.Date)
	date := stats.Date
	assert.Equal(t, "2024-01-01", date.MinDate)
	assert.Equal(t, "2024-03-10", date.MaxDate)
	require.NotNil(t, date.RangeDays)
	assert.Equal(t, int64(69), *date.RangeDays)

	require.Len(t, date.YearDistribution, 1)
	assert.Equal(t, "2024", date.YearDistribution[0].Year)
	assert.Equal(t, int64(4), date.YearDistribution[0].Count)
	assert.Equal(t, 100, date.YearDistribution[0].Percent)

	require.Len(t, date.MonthDistribution, 3)
	assert.Equal(t, "2024-01", date.MonthDistribution[0].Month)
	assert.Equal(t, int64(2), date.MonthDistribution[0].Count)
}

func TestGenerateColumnStatistics_NullsCounted(t *testing.T) {
	db := newTestDB(t,
		"CREATE TABLE items (value INTEGER)",
		"INSERT INTO items VALUES (1),(NULL),(3),(NULL)",
	)
	svc := NewStatisticsService(db, zap.NewNop())

	stats, err := svc.GenerateColumnStatistics(context.Background(), "items", "value")
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Count)
	assert.Equal(t, int64(2), stats.Nulls)
	assert.Equal(t, 50, stats.NullPercent)
}

func TestGenerateColumnStatistics_EmptyTable(t *testing.T) {
	db := newTestDB(t, "CREATE TABLE empty_table (value INTEGER)")
	svc := NewStatisticsService(db, zap.NewNop())

	_, err := svc.GenerateColumnStatistics(context.Background(), "empty_table", "value")
	require.ErrorIs(t, err, apperrors.ErrNoData)
}

func TestGenerateColumnStatistics_GenericForBoolean(t *testing.T) {
	// Booleans stored as text fall through to the generic builder.
	db := newTestDB(t,
		"CREATE TABLE flags (active TEXT)",
		"INSERT INTO flags VALUES ('true'),('false'),('true')",
	)
	svc := NewStatisticsService(db, zap.NewNop())

	stats, err := svc.GenerateColumnStatistics(context.Background(), "flags", "active")
	require.NoError(t, err)

	require.NotNil(t, stats.Generic)
	assert.Equal(t, int64(3), stats.Count)
	assert.Equal(t, int64(2), stats.DistinctCount)
	require.Len(t, stats.Generic.TopValues, 2)
	assert.Equal(t, "true", stats.Generic.TopValues[0].Value)
	assert.Equal(t, int64(2), stats.Generic.TopValues[0].Count)
}
