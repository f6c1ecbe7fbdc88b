// Package mask turns raw segmentation masks into discrete class bands and
// one-hot label volumes.
//
// A Thresholds list [t0, t1, ..., t(n-1)] partitions mask values into n
// classes: band k (k < n-1) is [t_k, t_{k+1}), the last class is everything
// at or above t(n-1). Masks may be stored in the 0..1 range or as raw 8-bit
// values (0..255); the range is detected per mask (max > 1.001 means 8-bit)
// and the thresholds are scaled to integer pixel values for the comparison.
//
// Discretize replaces every pixel by the midpoint of its band (1 for the last
// class). It is a fixed point: discretizing a discretized mask changes nothing.
// ToLabelVolume expands a mask into an [H, W, n] volume in which exactly one
// channel is 1 at every pixel.
//
// Errors:
//
//   - ErrThresholds: fewer than two thresholds, values outside [0,1], or not
//     strictly increasing.
//   - ErrEmptyMask: the mask has no pixels.
package mask
