package domain

import "errors"

var (
	// ErrInsufficientData is returned by Aggregate when no variables were supplied.
	ErrInsufficientData = errors.New("insufficient data: no variables to aggregate")
	// ErrUnknownActivity is returned for an activity outside the supported set.
	ErrUnknownActivity = errors.New("unknown activity")
	// ErrUnknownVariableKind is returned for a variable id with no thresholds.
	ErrUnknownVariableKind = errors.New("unknown variable kind")
	// ErrInsufficientHistory is returned by Estimate under PolicyStrict when no
	// sample falls inside the requested window.
	ErrInsufficientHistory = errors.New("insufficient history: no samples in window")
	// ErrInvalidPercentile is returned by Estimate for a percentile outside (0, 100].
	ErrInvalidPercentile = errors.New("invalid percentile")
	// ErrInvalidReading is returned for a reading that cannot be classified,
	// such as NaN, or a variable carrying an unrecognized status.
	ErrInvalidReading = errors.New("invalid reading")
	// ErrMalformedRequest is returned when a condition request cannot be decoded.
	ErrMalformedRequest = errors.New("malformed condition request")
	// ErrNotFound is returned by condition stores for an unknown condition id.
	ErrNotFound = errors.New("condition not found")
)
