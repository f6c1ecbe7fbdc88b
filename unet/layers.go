package unet

import "fmt"

// Kind tags a layer specification.
type Kind int

const (
	// KindInput is the network input.
	KindInput Kind = iota
	// KindConv is a convolution block: conv, ReLU, optional batch norm, dropout.
	KindConv
	// KindDownsample halves spatial resolution.
	KindDownsample
	// KindUpsample doubles spatial resolution.
	KindUpsample
	// KindConcat joins a skip connection with the decoder path along channels.
	KindConcat
	// KindOutput is the final 1×1 convolution with softmax.
	KindOutput
)

// String returns a short lower-case name.
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindConv:
		return "conv"
	case KindDownsample:
		return "downsample"
	case KindUpsample:
		return "upsample"
	case KindConcat:
		return "concat"
	case KindOutput:
		return "output"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Activations.
const (
	ActivationReLU    = "relu"
	ActivationSoftmax = "softmax"
)

// LayerSpec is one layer of the topology. Fields that do not apply to a
// kind are zero.
type LayerSpec struct {
	Name   string
	Kind   Kind
	Inputs []string // ordered; concat is [skip, upsampled]

	Filters    int
	Kernel     int
	Stride     int
	MaxPool    bool // downsample by 2×2/2 max-pooling instead of a strided conv
	Activation string

	BatchNorm bool
	// Momentum is handed to the normalization layer as 1 - decay.
	Momentum    float64
	DropoutRate float64

	// Level is the encoder level the layer belongs to; decoder layers carry
	// the level of the skip they consume. Input and output use -1.
	Level int
}

// hasKernel reports whether the layer owns a convolution kernel.
func (s LayerSpec) hasKernel() bool {
	return s.Kind == KindConv || s.Kind == KindOutput || (s.Kind == KindDownsample && !s.MaxPool)
}
