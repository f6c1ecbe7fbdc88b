// Package axonseg is the data and topology core of an axon/myelin
// segmentation trainer for microscopy images.
//
// Two halves, wired together by the axonseg command:
//
//	batch pipeline:   dataset → augment → mask → weightmap → batch
//	network topology: config → unet (on top of graph)
//
// Packages:
//
//	tensor/    - row-major N-dimensional float64 arrays, stacking, reshape
//	mask/      - threshold lists, mask discretization, one-hot label volumes
//	distance/  - exact Euclidean distance transform on pixel grids
//	weightmap/ - boundary-emphasis loss weights per class
//	augment/   - shift, rescale, rotation, elastic and flip augmentations
//	dataset/   - PNG split reader with an LRU decode cache
//	batch/     - sample pools, per-sample preprocessing, batch shaping
//	graph/     - ordered-input DAG with topological sort
//	unet/      - U-Net configuration, layer description, shape-checked build
//	config/    - YAML/JSON configuration file
//
// Everything is pure Go on top of gonum; no network framework is linked.
package axonseg
