// SPDX-License-Identifier: MIT

package mask

import (
	"errors"
	"fmt"
)

var (
	// ErrThresholds indicates a malformed threshold list.
	ErrThresholds = errors.New("mask: thresholds must be at least two strictly increasing values in [0,1]")

	// ErrEmptyMask indicates a mask without pixels.
	ErrEmptyMask = errors.New("mask: empty mask")
)

// byteScale is the full-scale value of 8-bit masks.
const byteScale = 255

// rangeCutoff separates normalized masks from 8-bit masks.
const rangeCutoff = 1.001

// Thresholds is an increasing list of class boundaries in [0,1].
type Thresholds []float64

// DefaultThresholds returns the two-class list [0, 0.5].
func DefaultThresholds() Thresholds {
	return Thresholds{0, 0.5}
}

// NewThresholds copies vals and validates them.
func NewThresholds(vals ...float64) (Thresholds, error) {
	th := make(Thresholds, len(vals))
	copy(th, vals)
	if err := th.Validate(); err != nil {
		return nil, err
	}

	return th, nil
}

// Validate returns ErrThresholds (wrapped with the offending position) when th
// is not a usable class partition.
func (th Thresholds) Validate() error {
	if len(th) < 2 {
		return fmt.Errorf("got %d values: %w", len(th), ErrThresholds)
	}
	for i, v := range th {
		if v < 0 || v > 1 {
			return fmt.Errorf("value %g at %d: %w", v, i, ErrThresholds)
		}
		if i > 0 && v <= th[i-1] {
			return fmt.Errorf("value %g at %d does not exceed %g: %w", v, i, th[i-1], ErrThresholds)
		}
	}

	return nil
}

// Classes returns the number of classes, len(th).
func (th Thresholds) Classes() int {
	return len(th)
}

// Clone returns an independent copy.
func (th Thresholds) Clone() Thresholds {
	out := make(Thresholds, len(th))
	copy(out, th)

	return out
}

// Level returns the normalized value that Discretize writes for class k:
// the band midpoint for k < n-1 and 1 for the last class.
func (th Thresholds) Level(k int) float64 {
	if k >= len(th)-1 {
		return 1
	}

	return (th[k] + th[k+1]) / 2
}

// scaled returns the thresholds expressed in the value range of a mask whose
// maximum is max. 8-bit masks compare against int(255*t).
func (th Thresholds) scaled(max float64) []float64 {
	out := make([]float64, len(th))
	for i, t := range th {
		if max > rangeCutoff {
			out[i] = float64(int(byteScale * t))
		} else {
			out[i] = t
		}
	}

	return out
}

// classOf returns the class index of v against scaled thresholds s.
// Values below s[0] fall into class 0.
func classOf(v float64, s []float64) int {
	last := len(s) - 1
	if v >= s[last] {
		return last
	}
	for k := last - 1; k > 0; k-- {
		if v >= s[k] {
			return k
		}
	}

	return 0
}

// ClassOf returns the class index of a normalized value v.
func (th Thresholds) ClassOf(v float64) int {
	return classOf(v, th)
}
