package schema

import "errors"

// Error kinds surfaced by the period filter and aggregations.
// Callers match them with errors.Is and render a "no data" placeholder.
var (
	// ErrInvalidPeriod is returned for a period name outside the closed selector set.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrEmptyDataset is returned when no rows with a parsable timestamp are available.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrMissingColumn is returned when a requested column is absent from the table.
	ErrMissingColumn = errors.New("missing column")
)
