// Package validation holds the input errors shared by the numeric packages.
package validation

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch is returned when parallel inputs differ in length.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrEmptyInput is returned when a non-empty input is required.
	ErrEmptyInput = errors.New("empty input")
)

// SameLength returns ErrShapeMismatch, naming both inputs, when n1 != n2.
func SameLength(name1 string, n1 int, name2 string, n2 int) error {
	if n1 != n2 {
		return fmt.Errorf("%d %s, %d %s: %w", n1, name1, n2, name2, ErrShapeMismatch)
	}
	return nil
}
