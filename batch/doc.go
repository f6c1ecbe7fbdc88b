// Package batch turns a split directory into batches of network-ready tensors.
//
// A Source owns a sample pool: an ordered sequence of sample indices with a
// cursor. Every drawn sample advances the cursor and a seen-counter; when the
// counter reaches the epoch size (the length of the first pool) the pool is
// regenerated. Training pools are shuffled and padded with distinct repeats so
// their length is a multiple of the batch size; validation pools are 0..n-1.
//
// Per sample, in order: load, augment, discretize mask, optional weight map,
// histogram-equalize image, standardize image, expand mask to a one-hot label
// volume. Samples are then stacked into [B,H,W] images, [B,H,W,n] labels and
// optional [B,H,W] weights.
//
// A Source is not safe for concurrent use.
package batch
