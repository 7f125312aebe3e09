package logging

const (
	// MaxQueryLogLength is the maximum length of a query to log
	MaxQueryLogLength = 100
)

// SanitizeQuery truncates a SQL query for logging. Ad-hoc queries can be
// arbitrarily long and may embed large literals; log lines should not.
func SanitizeQuery(query string) string {
	return TruncateString(query, MaxQueryLogLength)
}

// TruncateString truncates a string to maxLen and adds ellipsis if needed
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
