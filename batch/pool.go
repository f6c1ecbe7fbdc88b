package batch

import (
	"math/rand"
)

// newPool returns the sample order for one epoch of a set of size n.
//
// Train: a random permutation of 0..n-1 followed by distinct random repeats
// so that the length is a multiple of batchSize. When more repeats are
// needed than there are samples, they are drawn in rounds of distinct picks.
// Validation: 0..n-1 in order.
// Complexity: O(n + batchSize).
func newPool(split Split, n, batchSize int, rng *rand.Rand) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if split == Validation || n == 0 {
		return order
	}

	rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

	rem := n % batchSize
	if rem == 0 {
		return order
	}
	need := batchSize - rem
	for need > 0 {
		k := need
		if k > n {
			k = n
		}
		perm := rng.Perm(n)
		for _, p := range perm[:k] {
			order = append(order, order[p])
		}
		need -= k
	}

	return order
}
