package models

import "errors"

// Sentinel errors shared across the service, store and API layers.
// Handlers map these onto HTTP status codes with errors.Is.
var (
	// ErrInvalidInput covers zero-total confusion matrices and malformed
	// numeric input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLengthMismatch is returned when paired rating sequences differ
	// in length.
	ErrLengthMismatch = errors.New("rater sequences must have equal length")

	// ErrDegenerateAgreement is returned when expected agreement equals 1
	// and kappa is mathematically undefined.
	ErrDegenerateAgreement = errors.New("kappa undefined: expected agreement is 1")

	// ErrNotFound signals an unknown experiment identifier.
	ErrNotFound = errors.New("experiment not found")

	// ErrUnsupportedFormat signals an upload file type that is not recognized.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrMissingColumns signals an upload missing required columns.
	ErrMissingColumns = errors.New("missing required columns")
)
