// Package tensor provides the storage used for batch tensors: a dense,
// row-major, N-dimensional array of float64 values.
//
// What:
//
//   - Tensor keeps its values in one flat slice; the last axis varies fastest.
//   - Reshape re-interprets the buffer without copying.
//   - Stack joins equally-shaped tensors along a new leading axis.
//   - FromPlane / Plane convert between gonum planes and rank-2 tensors.
//
// Errors:
//
//   - ErrBadShape: a dimension is non-positive or the data length disagrees with the shape.
//   - ErrOutOfRange: an index lies outside the tensor.
//   - ErrDimensionMismatch: operands of Stack do not share a shape.
//
// Complexity: element access is O(rank); Stack and Clone are O(total elements).
package tensor
