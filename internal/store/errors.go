package store

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned when saving a store that has been closed.
	ErrClosed = errors.New("store is closed")
	// ErrNotInitialized is returned when saving a store before Init.
	ErrNotInitialized = errors.New("store is not initialized")
	// ErrNotFound is returned when a document id does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrUniqueViolation is returned when a write would duplicate a unique field.
	ErrUniqueViolation = errors.New("unique constraint violated")
)

// IOError reports a failure to load, save or close the store file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
