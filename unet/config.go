package unet

import (
	"math"
)

// Downsampling selects how the encoder halves spatial resolution.
type Downsampling string

const (
	// DownsampleConvolution uses a 5×5 convolution with stride 2.
	DownsampleConvolution Downsampling = "convolution"
	// DownsampleMaxPool uses 2×2 max-pooling with stride 2.
	DownsampleMaxPool Downsampling = "maxpooling"
)

// Config holds every architectural hyper-parameter. Per-level slices are
// indexed by encoder level; per-convolution slices by block within a level.
type Config struct {
	PatchSize int
	NClasses  int
	Depth     int
	// Dropout is the keep probability of each convolution block.
	Dropout float64

	ConvolutionPerLayer        []int
	SizeOfConvolutionsPerLayer [][]int
	// FeaturesPerConvolution holds [in, out] channel pairs; out is the
	// block's filter count.
	FeaturesPerConvolution [][][]int

	Downsampling      Downsampling
	BatchNormActivate bool

	BatchNormDecayStartingDecay float64
	BatchNormDecayEndingDecay   float64
	BatchNormDecayDecayPeriod   int
}

// Validate reports the first problem found, wrapped around ErrConfiguration.
// Stage 1: scalar fields. Stage 2: per-level lengths. Stage 3: per-block values.
func (c Config) Validate() error {
	switch {
	case c.PatchSize <= 0:
		return configErrorf("patch size %d", c.PatchSize)
	case c.NClasses <= 0:
		return configErrorf("n_classes %d", c.NClasses)
	case c.Depth <= 0:
		return configErrorf("depth %d", c.Depth)
	case !(c.Dropout > 0 && c.Dropout <= 1):
		return configErrorf("dropout keep probability %g not in (0,1]", c.Dropout)
	case c.Downsampling != DownsampleConvolution && c.Downsampling != DownsampleMaxPool:
		return configErrorf("downsampling %q", c.Downsampling)
	case !unit(c.BatchNormDecayStartingDecay):
		return configErrorf("batch norm starting decay %g not in [0,1]", c.BatchNormDecayStartingDecay)
	case !unit(c.BatchNormDecayEndingDecay):
		return configErrorf("batch norm ending decay %g not in [0,1]", c.BatchNormDecayEndingDecay)
	case c.BatchNormDecayDecayPeriod < 0:
		return configErrorf("batch norm decay period %d", c.BatchNormDecayDecayPeriod)
	}

	if len(c.ConvolutionPerLayer) != c.Depth ||
		len(c.SizeOfConvolutionsPerLayer) != c.Depth ||
		len(c.FeaturesPerConvolution) != c.Depth {
		return configErrorf("per-level lengths %d/%d/%d, depth %d",
			len(c.ConvolutionPerLayer), len(c.SizeOfConvolutionsPerLayer), len(c.FeaturesPerConvolution), c.Depth)
	}

	for i, n := range c.ConvolutionPerLayer {
		if n <= 0 {
			return configErrorf("level %d: %d convolutions", i, n)
		}
		if len(c.SizeOfConvolutionsPerLayer[i]) != n || len(c.FeaturesPerConvolution[i]) != n {
			return configErrorf("level %d: %d convolutions, %d sizes, %d feature pairs",
				i, n, len(c.SizeOfConvolutionsPerLayer[i]), len(c.FeaturesPerConvolution[i]))
		}
		for j := 0; j < n; j++ {
			if k := c.SizeOfConvolutionsPerLayer[i][j]; k <= 0 {
				return configErrorf("level %d conv %d: kernel %d", i, j, k)
			}
			f := c.FeaturesPerConvolution[i][j]
			if len(f) != 2 {
				return configErrorf("level %d conv %d: features %v is not an [in, out] pair", i, j, f)
			}
			if f[0] <= 0 || f[1] <= 0 {
				return configErrorf("level %d conv %d: features %v", i, j, f)
			}
		}
	}

	return nil
}

// BatchNormDecayAt returns the batch-norm decay at a training step, moving
// linearly from the starting to the ending decay over the decay period and
// holding the ending value afterwards. A zero period yields the ending decay.
func (c Config) BatchNormDecayAt(step int) float64 {
	if c.BatchNormDecayDecayPeriod <= 0 {
		return c.BatchNormDecayEndingDecay
	}
	t := math.Max(0, math.Min(1, float64(step)/float64(c.BatchNormDecayDecayPeriod)))

	return c.BatchNormDecayStartingDecay + t*(c.BatchNormDecayEndingDecay-c.BatchNormDecayStartingDecay)
}

// filters returns the output channel count of block j at level i.
func (c Config) filters(i, j int) int {
	return c.FeaturesPerConvolution[i][j][1]
}

// lastFilters returns the output channel count of the last block at level i.
func (c Config) lastFilters(i int) int {
	return c.filters(i, c.ConvolutionPerLayer[i]-1)
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
