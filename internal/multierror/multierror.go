package multierror

import (
	"fmt"
	"strings"
)

// Error combines errors keyed by the item that caused them, e.g. one error per
// destination of a broadcast. Keys are reported in the order they were added.
type Error[T comparable] struct {
	keys   []T
	errors map[T]error
}

// New creates a new Error.
func New[T comparable]() *Error[T] {
	return &Error[T]{
		errors: make(map[T]error),
	}
}

// Error returns a string representation of the error.
func (m *Error[T]) Error() string {
	parts := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		parts = append(parts, fmt.Sprintf("%v:%s", k, m.errors[k]))
	}

	return strings.Join(parts, "; ")
}

// Unwrap returns the collected errors, so that errors.Is and errors.As look
// through all of them.
func (m *Error[T]) Unwrap() []error {
	errs := make([]error, 0, len(m.keys))
	for _, k := range m.keys {
		errs = append(errs, m.errors[k])
	}

	return errs
}

// Len returns the number of errors.
func (m *Error[T]) Len() int {
	return len(m.keys)
}

// Add adds an error for the key. A second error for the same key replaces the first one.
func (m *Error[T]) Add(key T, err error) {
	if _, ok := m.errors[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.errors[key] = err
}

// Keys returns the keys that have an error attached.
func (m *Error[T]) Keys() []T {
	keys := make([]T, len(m.keys))
	copy(keys, m.keys)

	return keys
}

// Ret returns the Error if it contains any errors, nil otherwise.
func (m *Error[T]) Ret() error {
	if len(m.keys) == 0 {
		return nil
	}

	return m
}
