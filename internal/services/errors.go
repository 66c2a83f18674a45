package services

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned, wrapped with the id, when a referenced product
// does not exist.
var ErrNotFound = errors.New("product not found")

// ValidationError reports a field that mapped fine but breaks a business rule.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func notFound(id int64) error { return fmt.Errorf("%w: id %d", ErrNotFound, id) }
