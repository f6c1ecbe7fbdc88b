// Package distance computes exact Euclidean distance transforms over 2D grids
// of cells.
//
// What:
//
//   - Grid wraps a rectangular grid of "feature" and "background" cells.
//     NewGrid treats non-zero values as features; FromLabels selects features
//     from a row-major label slice with a predicate.
//   - Transform returns, for each cell, the Euclidean distance to the nearest
//     background cell (0 for background cells themselves).
//
// Algorithm:
//
//	Felzenszwalb–Huttenlocher separable transform. A 1D squared-distance pass
//	runs down every column, then along every row, each computing the lower
//	envelope of parabolas rooted at finite samples. Cells with no background
//	anywhere in the grid stay at +Inf.
//
// Complexity:
//
//   - Transform: O(W×H) time, O(W×H) memory.
//
// Errors:
//
//   - ErrEmptyGrid: input grid has no rows or no columns.
//   - ErrNonRectangular: rows have differing lengths, or labels do not fill
//     width×height.
package distance
