// SPDX-License-Identifier: MIT

package tensor

import (
	"fmt"
)

// Stack joins tensors of identical shape S into one tensor of shape [len(ts)]+S.
// Stage 1 (Validate): at least one tensor; all shapes equal.
// Stage 2 (Execute): copy each tensor's buffer into consecutive slabs.
// Returns ErrBadShape for an empty input, ErrDimensionMismatch when shapes differ.
// Complexity: O(len(ts) * product(S)).
func Stack(ts []*Tensor) (*Tensor, error) {
	if len(ts) == 0 {
		return nil, tensorErrorf("Stack", fmt.Errorf("no tensors: %w", ErrBadShape))
	}
	base := ts[0].shape
	for i, t := range ts[1:] {
		if !SameShape(base, t.shape) {
			return nil, tensorErrorf("Stack", fmt.Errorf("tensor %d has shape %v, want %v: %w", i+1, t.shape, base, ErrDimensionMismatch))
		}
	}

	shape := append([]int{len(ts)}, base...)
	out, err := New(shape...)
	if err != nil {
		return nil, tensorErrorf("Stack", err)
	}
	slab := len(ts[0].data)
	for i, t := range ts {
		copy(out.data[i*slab:(i+1)*slab], t.data)
	}

	return out, nil
}
