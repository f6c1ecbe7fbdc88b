// Package unet describes and materializes the topology of a U-Net
// segmentation network.
//
// Construction happens in two stages:
//
//  1. Describe turns a validated Config into an explicit, ordered list of
//     LayerSpec values. It is a pure function with no side effects.
//  2. Build inserts those specs into a graph.Graph, infers every tensor shape
//     in topological order and rejects skip concatenations whose spatial
//     sizes disagree.
//
// Layout for depth D:
//
//	input [P,P,1]
//	encoder level i (0..D-1): conv blocks → skip i → downsample
//	decoder step i (0..D-1), level L = D-1-i:
//	    upsample ×2 → conv (kernel 2) → concat [skip L, upsampled] → conv blocks
//	output: 1×1 conv to NClasses, channel-wise softmax
//
// Spatial sizes follow "same" padding: stride-2 convolutions round up,
// 2×2 max-pooling rounds down, upsampling doubles. A patch size that is not
// divisible by 2^D therefore fails at build time with a *ShapeMismatchError.
package unet
