// SPDX-License-Identifier: MIT

package mask

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/axonseg/tensor"
)

// Labels classifies every pixel of m and returns the class indices in
// row-major order along with the mask dimensions.
// Stage 1 (Validate): thresholds and mask size.
// Stage 2 (Prepare): detect the value range and scale the thresholds.
// Stage 3 (Execute): classify from the source values only.
// Complexity: O(H*W*n).
func Labels(m *mat.Dense, th Thresholds) (labels []int, rows, cols int, err error) {
	if err = th.Validate(); err != nil {
		return nil, 0, 0, fmt.Errorf("Labels: %w", err)
	}
	if m == nil || m.IsEmpty() {
		return nil, 0, 0, fmt.Errorf("Labels: %w", ErrEmptyMask)
	}
	rows, cols = m.Dims()
	s := th.scaled(mat.Max(m))

	labels = make([]int, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for _, v := range m.RawRowView(i) {
			labels = append(labels, classOf(v, s))
		}
	}

	return labels, rows, cols, nil
}

// Discretize returns a new mask in which each pixel of m is replaced by the
// level of its class band: the band midpoint, or 1 at and above the last
// threshold. The input is not modified.
// Complexity: O(H*W*n).
func Discretize(m *mat.Dense, th Thresholds) (*mat.Dense, error) {
	labels, rows, cols, err := Labels(m, th)
	if err != nil {
		return nil, fmt.Errorf("mask.Discretize: %w", err)
	}

	levels := make([]float64, th.Classes())
	for k := range levels {
		levels[k] = th.Level(k)
	}
	data := make([]float64, len(labels))
	for i, k := range labels {
		data[i] = levels[k]
	}

	return mat.NewDense(rows, cols, data), nil
}

// ToLabelVolume expands m into an [H, W, n] one-hot volume: channel k is 1
// where the pixel belongs to class k. Exactly one channel is set per pixel.
// Complexity: O(H*W*n).
func ToLabelVolume(m *mat.Dense, th Thresholds) (*tensor.Tensor, error) {
	labels, rows, cols, err := Labels(m, th)
	if err != nil {
		return nil, fmt.Errorf("mask.ToLabelVolume: %w", err)
	}

	n := th.Classes()
	vol, err := tensor.New(rows, cols, n)
	if err != nil {
		return nil, fmt.Errorf("mask.ToLabelVolume: %w", err)
	}
	data := vol.Data()
	for p, k := range labels {
		data[p*n+k] = 1
	}

	return vol, nil
}
