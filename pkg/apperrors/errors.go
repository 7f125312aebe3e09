// Package apperrors defines sentinel errors shared across service and
// handler layers. Check them with errors.Is so wrapped context survives.
package apperrors

import "errors"

var (
	// ErrNoData indicates a statistics or profiling request against a
	// table or column with no rows. Handlers surface this as a normal
	// empty state, not an HTTP failure.
	ErrNoData = errors.New("no data available")

	// ErrQueryRequired indicates an ad-hoc query request with an empty
	// SQL statement.
	ErrQueryRequired = errors.New("query is required")
)
