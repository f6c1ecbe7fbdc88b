// Package dataset reads one split of a segmentation training set.
//
// A split directory holds numbered pairs of grayscale PNG files:
//
//	image_<i>.png   raw intensities
//	mask_<i>.png    ground-truth mask
//
// The split size is the number of image_*.png files. Planes are returned as
// gonum matrices in raw 8-bit range; 16-bit PNGs are reduced to 8 bits.
// Decoded pairs may be cached in a bounded LRU; callers always receive
// private copies.
package dataset
