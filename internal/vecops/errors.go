package vecops

import (
	"errors"
	"fmt"
)

// ErrDimensionMismatch reports a violated vector or matrix shape contract.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// DimensionError provides the operation and the lengths that disagreed.
type DimensionError struct {
	Op   string // Operation that rejected its inputs (e.g., "add", "matvec")
	Want int    // Length required by the first operand
	Got  int    // Length actually supplied
}

// Error implements the error interface.
func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %s: want %d, got %d", e.Op, ErrDimensionMismatch, e.Want, e.Got)
}

// Unwrap lets errors.Is match ErrDimensionMismatch.
func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}

func mismatch(op string, want, got int) error {
	return &DimensionError{Op: op, Want: want, Got: got}
}
