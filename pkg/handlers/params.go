package handlers

import (
	"net/http"
	"regexp"

	"go.uber.org/zap"
)

// identifierPattern strips everything but word characters, matching the
// sanitization applied before identifiers are interpolated into SQL.
var identifierPattern = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// SanitizeIdentifier reduces a table or column name to its safe characters.
// Returns the sanitized name and whether anything usable remains.
func SanitizeIdentifier(name string) (string, bool) {
	sanitized := identifierPattern.ReplaceAllString(name, "")
	return sanitized, sanitized != ""
}

// ParseTableName extracts and sanitizes the table name from the request
// path. Returns the sanitized name and true on success, or "" and false
// after writing an error response.
// Expects path parameter: tableName
func ParseTableName(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	return parseIdentifier(w, r, "tableName", "invalid_table_name", "Invalid table name", logger)
}

// ParseColumnName extracts and sanitizes the column name from the request
// path. Returns the sanitized name and true on success, or "" and false
// after writing an error response.
// Expects path parameter: columnName
func ParseColumnName(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	return parseIdentifier(w, r, "columnName", "invalid_column_name", "Invalid column name", logger)
}

// parseIdentifier is the internal helper that does the actual parsing work.
func parseIdentifier(w http.ResponseWriter, r *http.Request, pathParam, errorCode, errorMessage string, logger *zap.Logger) (string, bool) {
	name, ok := SanitizeIdentifier(r.PathValue(pathParam))
	if !ok {
		if err := ErrorResponse(w, http.StatusBadRequest, errorCode, errorMessage); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return "", false
	}
	return name, true
}
