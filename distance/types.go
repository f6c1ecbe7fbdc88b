// Package distance defines the Grid type and sentinel errors.
package distance

import (
	"errors"
)

// Sentinel errors for distance operations.
var (
	// ErrEmptyGrid indicates input grid has no rows or no columns.
	ErrEmptyGrid = errors.New("distance: input grid must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("distance: all rows must have the same length")
)

// Grid is an immutable binary grid. Width and Height define dimensions;
// Cells holds Width*Height flags in row-major order, true for feature cells.
type Grid struct {
	Width, Height int
	Cells         []bool
}
