package unet

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/axonseg/tensor"
)

// glorotTruncation is the standard deviation of a unit normal truncated at
// two standard deviations; dividing by it restores the target variance.
const glorotTruncation = 0.87962566103423978

// Params holds the initial trainable values of one layer.
type Params struct {
	// Kernel has shape [k, k, in, out].
	Kernel *tensor.Tensor
	Bias   []float64
	// Gamma and Beta are nil without batch normalization.
	Gamma []float64
	Beta  []float64
}

// Initialize draws Glorot-normal kernels (truncated at two standard
// deviations), zero biases and identity batch-norm parameters for every
// layer that owns weights. Layers are visited in topological order, so the
// same seed always yields the same values.
func (m *Model) Initialize(rng *rand.Rand) (map[string]Params, error) {
	out := make(map[string]Params)
	for _, name := range m.order {
		l, _ := m.g.Node(name)
		s := l.Spec
		if !s.hasKernel() {
			continue
		}
		in, err := m.inputChannels(s)
		if err != nil {
			return nil, err
		}

		kernel, err := tensor.New(s.Kernel, s.Kernel, in, s.Filters)
		if err != nil {
			return nil, err
		}
		fanIn := float64(s.Kernel * s.Kernel * in)
		fanOut := float64(s.Kernel * s.Kernel * s.Filters)
		std := math.Sqrt(2/(fanIn+fanOut)) / glorotTruncation
		data := kernel.Data()
		for i := range data {
			data[i] = truncatedNormal(rng) * std
		}

		p := Params{Kernel: kernel, Bias: make([]float64, s.Filters)}
		if s.BatchNorm {
			p.Gamma = make([]float64, s.Filters)
			for i := range p.Gamma {
				p.Gamma[i] = 1
			}
			p.Beta = make([]float64, s.Filters)
		}
		out[name] = p
	}

	return out, nil
}

func (m *Model) inputChannels(s LayerSpec) (int, error) {
	in, err := m.g.Node(s.Inputs[0])
	if err != nil {
		return 0, err
	}

	return in.Shape[2], nil
}

// truncatedNormal draws a unit normal sample re-drawn until it lies within
// two standard deviations.
func truncatedNormal(rng *rand.Rand) float64 {
	for {
		if v := rng.NormFloat64(); math.Abs(v) <= 2 {
			return v
		}
	}
}
