// Package repository provides the catalog item store.
package repository

import (
	"errors"
)

// ErrNotFound is returned when no item has the requested id
var ErrNotFound = errors.New("not found")

// IsNotFound checks if an error represents a "not found" condition.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound)
}
