// Package augment provides randomized image/mask transformations used to
// enlarge the training set on the fly.
//
// A Transform acts on a Pair (image plane plus mask plane of equal size) and
// always returns new planes. Geometric transforms that interpolate the mask
// re-discretize it with the threshold list bound at selection time, so the
// mask keeps valid class levels.
//
// Transforms are chosen by Select from a caller-supplied map of flags. Keys
// may carry a namespace prefix ("da_shifting", "1-flipping"); unrecognized
// keys are ignored. Selected transforms are returned in canonical order:
//
//	shifting, rescaling, random_rotation, elastic, flipping
//
// All randomness comes from an explicit *rand.Rand, so a seeded generator
// reproduces the same augmentation stream.
package augment
