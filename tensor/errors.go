// SPDX-License-Identifier: MIT
// Package tensor: sentinel error set.
//
// Every message is prefixed with "tensor: ..." for consistency. Functions add
// method context with fmt.Errorf("Tensor.<Method>: %w", ErrX); callers match
// with errors.Is.

package tensor

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when a shape has no axes, a non-positive axis,
	// or does not agree with the length of the supplied data.
	ErrBadShape = errors.New("tensor: invalid shape")

	// ErrOutOfRange indicates that an index is outside valid bounds or has the
	// wrong number of coordinates.
	ErrOutOfRange = errors.New("tensor: index out of range")

	// ErrDimensionMismatch indicates incompatible shapes between operands.
	ErrDimensionMismatch = errors.New("tensor: dimension mismatch")
)

// tensorErrorf wraps err with the method name.
func tensorErrorf(method string, err error) error {
	return fmt.Errorf("Tensor.%s: %w", method, err)
}
