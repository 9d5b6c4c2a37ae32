package data

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// StorageCorruptError reports persisted data that exists but cannot be decoded.
type StorageCorruptError struct {
	Path string
	Err  error
}

func (e *StorageCorruptError) Error() string {
	return fmt.Sprintf("storage %s is corrupt: %v", e.Path, e.Err)
}

func (e *StorageCorruptError) Unwrap() error {
	return e.Err
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
