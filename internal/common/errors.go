// Package common defines shared constants and sentinel errors used across
// client layers of gophdocs. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Document-level errors.
	ErrMissingID    = errors.New("document has no id")
	ErrNotADocument = errors.New("not a document")

	// ErrVersionConflict is returned when the server rejects the If-Match
	// precondition of a write.
	ErrVersionConflict = errors.New("version conflict")

	// ErrPointerNotFound is returned when a reference token embedded in a
	// document has no entry in the response pointers table.
	ErrPointerNotFound = errors.New("pointer not found")
)
