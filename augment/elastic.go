package augment

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/axonseg/mask"
)

// Elastic deformation parameters, in pixels.
const (
	elasticSigma    = 10.0
	elasticMaxAlpha = 100.0
	gaussTruncate   = 4.0
)

// elasticWith displaces every pixel by a random field drawn uniformly in
// [-1,1], Gaussian-smoothed with elasticSigma and scaled by α ∈ [0, elasticMaxAlpha].
func elasticWith(th mask.Thresholds) func(Pair, *rand.Rand) (Pair, error) {
	return func(p Pair, rng *rand.Rand) (Pair, error) {
		rows, cols := p.Image.Dims()
		alpha := rng.Float64() * elasticMaxAlpha
		kernel := gaussianKernel(elasticSigma)

		field := func() []float64 {
			f := make([]float64, rows*cols)
			for i := range f {
				f[i] = 2*rng.Float64() - 1
			}
			smooth(f, rows, cols, kernel)
			floats.Scale(alpha, f)
			return f
		}
		dy, dx := field(), field()

		source := func(i, j int) (float64, float64) {
			k := i*cols + j
			return float64(i) + dy[k], float64(j) + dx[k]
		}

		return warpPair(p, source, th)
	}
}

// gaussianKernel returns a normalized 1D Gaussian truncated at
// gaussTruncate standard deviations.
func gaussianKernel(sigma float64) []float64 {
	radius := int(gaussTruncate*sigma + 0.5)
	k := make([]float64, 2*radius+1)
	for i := range k {
		x := float64(i - radius)
		k[i] = math.Exp(-x * x / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(k), k)

	return k
}

// smooth convolves the row-major rows×cols field with kernel along both
// axes in place, reflecting at the borders.
func smooth(f []float64, rows, cols int, kernel []float64) {
	radius := len(kernel) / 2
	n := rows
	if cols > n {
		n = cols
	}
	line := make([]float64, n)
	window := make([]float64, len(kernel))

	pass := func(length int, at func(int) int) {
		for q := 0; q < length; q++ {
			line[q] = f[at(q)]
		}
		for q := 0; q < length; q++ {
			for t := range window {
				window[t] = line[reflectIndex(q+t-radius, length)]
			}
			f[at(q)] = floats.Dot(kernel, window)
		}
	}

	for i := 0; i < rows; i++ {
		base := i * cols
		pass(cols, func(q int) int { return base + q })
	}
	for j := 0; j < cols; j++ {
		col := j
		pass(rows, func(q int) int { return q*cols + col })
	}
}
