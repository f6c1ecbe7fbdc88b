// SPDX-License-Identifier: MIT

package tensor

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Tensor is a row-major N-dimensional array of float64 values.
// shape holds the axis lengths, strides the flat step of each axis and data
// the product(shape) elements.
type Tensor struct {
	shape   []int
	strides []int
	data    []float64
}

// New creates a zero-filled tensor of the given shape.
// Stage 1 (Validate): every axis must be > 0.
// Stage 2 (Prepare): allocate the flat backing slice.
// Complexity: O(product(shape)) time and memory.
func New(shape ...int) (*Tensor, error) {
	n, err := volume(shape)
	if err != nil {
		return nil, tensorErrorf("New", err)
	}

	return &Tensor{shape: cloneInts(shape), strides: stridesOf(shape), data: make([]float64, n)}, nil
}

// FromData wraps data (not copied) as a tensor of the given shape.
// Returns ErrBadShape if len(data) != product(shape).
func FromData(data []float64, shape ...int) (*Tensor, error) {
	n, err := volume(shape)
	if err != nil {
		return nil, tensorErrorf("FromData", err)
	}
	if len(data) != n {
		return nil, tensorErrorf("FromData", fmt.Errorf("len(data)=%d, shape %v needs %d: %w", len(data), shape, n, ErrBadShape))
	}

	return &Tensor{shape: cloneInts(shape), strides: stridesOf(shape), data: data}, nil
}

// FromPlane copies a gonum plane into a rank-2 tensor [rows, cols].
// Complexity: O(rows*cols).
func FromPlane(m *mat.Dense) *Tensor {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		data = append(data, m.RawRowView(i)...)
	}

	return &Tensor{shape: []int{r, c}, strides: stridesOf([]int{r, c}), data: data}
}

// Plane returns a copy of a rank-2 tensor as a gonum plane.
// Returns ErrDimensionMismatch if the tensor is not rank 2.
func (t *Tensor) Plane() (*mat.Dense, error) {
	if len(t.shape) != 2 {
		return nil, tensorErrorf("Plane", ErrDimensionMismatch)
	}
	data := make([]float64, len(t.data))
	copy(data, t.data)

	return mat.NewDense(t.shape[0], t.shape[1], data), nil
}

// Shape returns a copy of the axis lengths.
func (t *Tensor) Shape() []int {
	return cloneInts(t.shape)
}

// Rank returns the number of axes.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// Dim returns the length of axis i.
func (t *Tensor) Dim(i int) int {
	return t.shape[i]
}

// Len returns the total number of elements.
func (t *Tensor) Len() int {
	return len(t.data)
}

// Data exposes the flat backing slice. Writes through it are visible to t.
func (t *Tensor) Data() []float64 {
	return t.data
}

// offset computes the flat index of idx or returns ErrOutOfRange.
func (t *Tensor) offset(idx []int) (int, error) {
	if len(idx) != len(t.shape) {
		return 0, ErrOutOfRange
	}
	off := 0
	for a, i := range idx {
		if i < 0 || i >= t.shape[a] {
			return 0, ErrOutOfRange
		}
		off += i * t.strides[a]
	}

	return off, nil
}

// At returns the element at idx.
// Complexity: O(rank).
func (t *Tensor) At(idx ...int) (float64, error) {
	off, err := t.offset(idx)
	if err != nil {
		return 0, tensorErrorf("At", fmt.Errorf("%v: %w", idx, err))
	}

	return t.data[off], nil
}

// Set assigns v at idx.
// Complexity: O(rank).
func (t *Tensor) Set(v float64, idx ...int) error {
	off, err := t.offset(idx)
	if err != nil {
		return tensorErrorf("Set", fmt.Errorf("%v: %w", idx, err))
	}
	t.data[off] = v

	return nil
}

// Reshape returns a view of t with a new shape sharing the same data.
// One axis may be -1, in which case it is inferred from the others.
// Returns ErrBadShape when the element counts disagree.
func (t *Tensor) Reshape(shape ...int) (*Tensor, error) {
	shape = cloneInts(shape)
	infer, known := -1, 1
	for i, d := range shape {
		switch {
		case d == -1 && infer < 0:
			infer = i
		case d <= 0:
			return nil, tensorErrorf("Reshape", fmt.Errorf("%v: %w", shape, ErrBadShape))
		default:
			known *= d
		}
	}
	if infer >= 0 {
		if known == 0 || len(t.data)%known != 0 {
			return nil, tensorErrorf("Reshape", fmt.Errorf("%v from %v: %w", shape, t.shape, ErrBadShape))
		}
		shape[infer] = len(t.data) / known
		known *= shape[infer]
	}
	if known != len(t.data) {
		return nil, tensorErrorf("Reshape", fmt.Errorf("%v from %v: %w", shape, t.shape, ErrBadShape))
	}

	return &Tensor{shape: shape, strides: stridesOf(shape), data: t.data}, nil
}

// Clone returns a deep copy of t.
// Complexity: O(Len()).
func (t *Tensor) Clone() *Tensor {
	data := make([]float64, len(t.data))
	copy(data, t.data)

	return &Tensor{shape: cloneInts(t.shape), strides: cloneInts(t.strides), data: data}
}

// String implements fmt.Stringer with the shape only; tensors are usually too
// large to print.
func (t *Tensor) String() string {
	parts := make([]string, len(t.shape))
	for i, d := range t.shape {
		parts[i] = fmt.Sprint(d)
	}

	return "Tensor(" + strings.Join(parts, "x") + ")"
}

// volume validates shape and returns the number of elements it describes.
func volume(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, ErrBadShape
	}
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return 0, fmt.Errorf("%v: %w", shape, ErrBadShape)
		}
		n *= d
	}

	return n, nil
}

// stridesOf computes row-major strides.
func stridesOf(shape []int) []int {
	s := make([]int, len(shape))
	step := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = step
		step *= shape[i]
	}

	return s
}

func cloneInts(s []int) []int {
	out := make([]int, len(s))
	copy(out, s)

	return out
}

// SameShape reports whether a and b have identical shapes.
func SameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
