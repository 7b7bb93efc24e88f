package catalog

import (
	"errors"
	"fmt"
)

// ErrEmptyCatalog is returned when no usable movie remains after loading.
var ErrEmptyCatalog = errors.New("catalog is empty")

// ErrMissingColumn is wrapped by LoadError when a required column is absent.
var ErrMissingColumn = errors.New("missing required column")

// LoadError reports a catalog source that could not be read or parsed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load catalog %q: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
