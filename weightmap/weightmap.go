// SPDX-License-Identifier: MIT

// Package weightmap synthesizes per-pixel loss weights that emphasize class
// boundaries.
//
// Class 0 is the background band, the implicit complement of every other
// class, and keeps a flat weight of 1. For every other class c the binary mask
// of its pixels is distance-transformed (distance to the nearest pixel outside
// the class); zero distances are replaced by the map's maximum so that
// out-of-class pixels sit on the flat tail of the curve; then
//
//	w_c = 1 + w0 · exp(-(d/σ)² / 2),  σ = Sigma, w0 = W0First for c = 1, W0Other otherwise.
//
// The combined map gives each pixel the weight of its own class.
package weightmap

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/axonseg/distance"
	"github.com/katalvlaran/axonseg/mask"
	"github.com/katalvlaran/axonseg/tensor"
)

// Weighting constants.
const (
	Sigma   = 2.0
	W0First = 0.5
	W0Other = 1.0
)

// PerClass returns an [H, W, n] tensor holding the weight map of every class
// for the discretized mask m, plus the per-pixel class labels (row-major).
// Complexity: O(n·H·W).
func PerClass(m *mat.Dense, th mask.Thresholds) (*tensor.Tensor, []int, error) {
	labels, rows, cols, err := mask.Labels(m, th)
	if err != nil {
		return nil, nil, fmt.Errorf("weightmap.PerClass: %w", err)
	}
	n := th.Classes()
	out, err := tensor.New(rows, cols, n)
	if err != nil {
		return nil, nil, fmt.Errorf("weightmap.PerClass: %w", err)
	}
	data := out.Data()

	// Background keeps weight 1.
	for p := 0; p < rows*cols; p++ {
		data[p*n] = 1
	}

	for c := 1; c < n; c++ {
		grid, err := distance.FromLabels(labels, cols, rows, func(k int) bool { return k == c })
		if err != nil {
			return nil, nil, fmt.Errorf("weightmap.PerClass: class %d: %w", c, err)
		}
		w := classWeights(grid.Transform(), w0For(c))
		for p, v := range w {
			data[p*n+c] = v
		}
	}

	return out, labels, nil
}

// Synthesize returns the combined [H, W] weight map of the discretized mask m:
// each pixel takes the weight of its own class.
func Synthesize(m *mat.Dense, th mask.Thresholds) (*mat.Dense, error) {
	per, labels, err := PerClass(m, th)
	if err != nil {
		return nil, fmt.Errorf("weightmap.Synthesize: %w", err)
	}
	n := th.Classes()
	rows, cols := per.Dim(0), per.Dim(1)
	data := per.Data()

	combined := make([]float64, rows*cols)
	for p, k := range labels {
		combined[p] = data[p*n+k]
	}

	return mat.NewDense(rows, cols, combined), nil
}

// classWeights maps distances to weights in place and returns them.
// Zero distances take the largest finite distance of the map. A map without
// any finite positive distance stays constant.
func classWeights(d []float64, w0 float64) []float64 {
	max := 0.0
	for _, v := range d {
		if !math.IsInf(v, 1) && v > max {
			max = v
		}
	}
	for i, v := range d {
		if v == 0 {
			d[i] = max
		}
	}
	floats.Scale(1/Sigma, d)
	for i, v := range d {
		d[i] = 1 + w0*math.Exp(-(v*v)/2)
	}

	return d
}

func w0For(class int) float64 {
	if class == 1 {
		return W0First
	}

	return W0Other
}
