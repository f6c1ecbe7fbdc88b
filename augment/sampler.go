package augment

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// reflectIndex folds i into [0,n) by mirroring about the plane edges
// (d c b a | a b c d | d c b a).
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}

	return i
}

// bilinear samples src at the fractional position (y, x), reflecting
// out-of-range neighbours back into the plane.
func bilinear(src *mat.Dense, y, x float64) float64 {
	rows, cols := src.Dims()
	y0, x0 := math.Floor(y), math.Floor(x)
	fy, fx := y-y0, x-x0
	i0, j0 := int(y0), int(x0)

	r0, r1 := reflectIndex(i0, rows), reflectIndex(i0+1, rows)
	c0, c1 := reflectIndex(j0, cols), reflectIndex(j0+1, cols)

	top := src.At(r0, c0)*(1-fx) + src.At(r0, c1)*fx
	bottom := src.At(r1, c0)*(1-fx) + src.At(r1, c1)*fx

	return top*(1-fy) + bottom*fy
}

// warp builds a plane of src's size whose pixel (i, j) is src sampled at
// source(i, j).
func warp(src *mat.Dense, source func(i, j int) (y, x float64)) *mat.Dense {
	rows, cols := src.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		row := out.RawRowView(i)
		for j := range row {
			y, x := source(i, j)
			row[j] = bilinear(src, y, x)
		}
	}

	return out
}

// centre returns the geometric centre of a rows×cols plane.
func centre(src *mat.Dense) (cy, cx float64) {
	rows, cols := src.Dims()

	return float64(rows-1) / 2, float64(cols-1) / 2
}
