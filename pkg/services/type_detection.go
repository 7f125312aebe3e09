package services

import (
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/tablescope/tablescope/pkg/models"
)

// datePattern matches a plain calendar date; datetimePattern matches an
// ISO-8601-like timestamp with optional seconds, fraction, and offset.
var (
	datePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	datetimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}(:\d{2})?(\.\d+)?(Z|[+-]\d{2}:?\d{2})?$`)
)

// datetimeLayouts are tried in order when validating a datetime candidate.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ClassifyValue determines the granular type of a single sample value.
// Precedence is fixed: null, boolean, numeric, date, datetime, string; a
// value matching multiple patterns takes the first match.
func ClassifyValue(value any) models.TypeTag {
	value = normalizeSample(value)
	if value == nil {
		return models.TypeNull
	}

	switch v := value.(type) {
	case bool:
		return models.TypeBoolean
	case int, int32, int64, uint, uint32, uint64:
		return models.TypeInteger
	case float32:
		return classifyNumber(float64(v))
	case float64:
		return classifyNumber(v)
	case time.Time:
		return models.TypeDatetime
	case string:
		if v == "true" || v == "false" {
			return models.TypeBoolean
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return classifyNumber(f)
		}
		if datePattern.MatchString(v) {
			if _, err := time.Parse("2006-01-02", v); err == nil {
				return models.TypeDate
			}
		}
		if datetimePattern.MatchString(v) && parseableDatetime(v) {
			return models.TypeDatetime
		}
		return models.TypeString
	default:
		return models.TypeString
	}
}

// DetectDataType aggregates per-value type votes for one column sample into
// a dominant type with a confidence score. Never fails: an empty sample
// yields a well-formed unknown result. The caller is expected to have
// filtered out nulls already; null and total counts for the column are
// reported upstream.
func DetectDataType(values []any) models.ColumnTypeInfo {
	if len(values) == 0 {
		return models.ColumnTypeInfo{
			Type:       models.TypeUnknown,
			Confidence: 0,
			Examples:   []any{},
			Stats:      models.TypeStats{},
		}
	}

	votes := map[models.TypeTag]int{}
	numberVotes := 0

	unique := make(map[any]struct{})
	examples := make([]any, 0, 5)
	numericValues := make([]float64, 0, len(values))

	minLength := math.MaxInt
	maxLength := 0

	for _, raw := range values {
		value := normalizeSample(raw)
		unique[value] = struct{}{}

		if len(examples) < 5 && !containsValue(examples, value) {
			examples = append(examples, value)
		}

		tag := ClassifyValue(value)
		votes[tag]++

		if tag == models.TypeInteger || tag == models.TypeFloat {
			numberVotes++
			if f, ok := toFloat(value); ok {
				numericValues = append(numericValues, f)
			}
		}

		if s, ok := value.(string); ok {
			if len(s) > maxLength {
				maxLength = len(s)
			}
			if len(s) < minLength {
				minLength = len(s)
			}
		}
	}

	total := len(values)
	dominant := models.TypeString
	confidence := float64(votes[models.TypeString]) / float64(total) * 100

	if float64(numberVotes)/float64(total) > 0.8 {
		if float64(votes[models.TypeInteger])/float64(numberVotes) > 0.9 {
			dominant = models.TypeInteger
		} else {
			dominant = models.TypeFloat
		}
		confidence = float64(numberVotes) / float64(total) * 100
	}

	// Date checks run after the numeric check on purpose: a column of
	// date-like values that also parse numerically is reported temporal.
	if float64(votes[models.TypeDate])/float64(total) > 0.8 {
		dominant = models.TypeDate
		confidence = float64(votes[models.TypeDate]) / float64(total) * 100
	} else if float64(votes[models.TypeDatetime])/float64(total) > 0.8 {
		dominant = models.TypeDatetime
		confidence = float64(votes[models.TypeDatetime]) / float64(total) * 100
	}

	// Boolean has final precedence.
	if float64(votes[models.TypeBoolean])/float64(total) > 0.8 {
		dominant = models.TypeBoolean
		confidence = float64(votes[models.TypeBoolean]) / float64(total) * 100
	}

	info := models.ColumnTypeInfo{
		Type:       dominant,
		Confidence: int(math.Round(confidence)),
		Examples:   examples,
		Stats: models.TypeStats{
			UniqueCount: len(unique),
			UniqueRatio: float64(len(unique)) / float64(total),
			NullCount:   0,
			TotalCount:  total,
		},
	}

	if dominant.IsNumeric() && len(numericValues) > 0 {
		if minVal, err := stats.Min(numericValues); err == nil {
			info.Stats.Min = &minVal
		}
		if maxVal, err := stats.Max(numericValues); err == nil {
			info.Stats.Max = &maxVal
		}
		if mean, err := stats.Mean(numericValues); err == nil {
			info.Stats.Mean = &mean
		}
		if len(unique) < 10 && total > 20 {
			info.Stats.PotentialCategory = true
		}
	} else if dominant == models.TypeString {
		if maxLength > 0 || minLength != math.MaxInt {
			minLen := minLength
			if minLen == math.MaxInt {
				minLen = 0
			}
			maxLen := maxLength
			info.Stats.MinLength = &minLen
			info.Stats.MaxLength = &maxLen
		}
		if len(unique) < 20 && len(unique) > 1 {
			info.Stats.PotentialCategory = true
		}
	}

	return info
}

// classifyNumber splits numerics into integer vs float by fractional part.
func classifyNumber(f float64) models.TypeTag {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return models.TypeInteger
	}
	return models.TypeFloat
}

func parseableDatetime(s string) bool {
	for _, layout := range datetimeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// normalizeSample folds driver byte slices into strings so values stay
// comparable for uniqueness tracking.
func normalizeSample(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func containsValue(values []any, target any) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// toFloat converts any numeric sample value to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
