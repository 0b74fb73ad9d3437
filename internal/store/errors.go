package store

import "errors"

// ErrNotFound is returned when a referenced record does not exist, so
// callers can distinguish a missing id from a failed operation.
var ErrNotFound = errors.New("record not found")

// ErrValidation marks input problems detected before any mutation. Wrapped
// errors carry the field-level detail.
var ErrValidation = errors.New("validation failed")
