// ABOUTME: Common storage errors
// ABOUTME: Enables consistent error handling across storage implementations

package storage

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidDocument is returned when a stored activity cannot be decoded.
var ErrInvalidDocument = errors.New("invalid activity document")
