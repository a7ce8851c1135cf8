package instrument

import "errors"

// Error kinds surfaced by every pricing and Greek operation. Call sites
// wrap these with fmt.Errorf("%w: ...") so callers can classify with
// errors.Is while still seeing the offending field in the message.
var (
	// ErrInvalidInput marks a constructor, setter, or market-data value
	// outside its documented domain.
	ErrInvalidInput = errors.New("invalid input")

	// ErrComputation marks a delegated valuation that produced a
	// non-finite, or where disallowed a negative, number.
	ErrComputation = errors.New("computation produced an invalid result")

	// ErrFeatureUnavailable marks an operation that needs the optional
	// external pricing backend in a build that does not carry it.
	ErrFeatureUnavailable = errors.New("feature unavailable")
)
