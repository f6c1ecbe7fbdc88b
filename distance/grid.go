package distance

// NewGrid constructs a Grid from a non-empty, rectangular 2D slice. Cells
// with a non-zero value are features.
// Returns ErrEmptyGrid if values has no rows or no columns,
// ErrNonRectangular if any row length differs.
// Complexity: O(W×H) time and memory.
func NewGrid(values [][]int) (*Grid, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	h, w := len(values), len(values[0])
	flat := make([]int, 0, w*h)
	for _, row := range values {
		if len(row) != w {
			return nil, ErrNonRectangular
		}
		flat = append(flat, row...)
	}

	return FromLabels(flat, w, h, func(v int) bool { return v != 0 })
}

// FromLabels builds a width×height Grid from row-major labels; a cell is a
// feature when feature(label) reports true.
// Returns ErrEmptyGrid for a non-positive dimension, ErrNonRectangular when
// len(labels) != width*height.
// Complexity: O(W×H).
func FromLabels(labels []int, width, height int, feature func(label int) bool) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyGrid
	}
	if len(labels) != width*height {
		return nil, ErrNonRectangular
	}
	cells := make([]bool, len(labels))
	for i, k := range labels {
		cells[i] = feature(k)
	}

	return &Grid{Width: width, Height: height, Cells: cells}, nil
}

// index maps (x,y) to a row‑major index: y*Width + x.
func (g *Grid) index(x, y int) int {
	return y*g.Width + x
}
