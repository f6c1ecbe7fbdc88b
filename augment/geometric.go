package augment

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/axonseg/mask"
)

// Augmentation ranges.
const (
	maxShiftFraction = 0.1
	maxZoom          = 1.2
	minAngleDeg      = 5.0
	maxAngleDeg      = 89.0
)

// shift translates both planes by the same whole-pixel offset, at most 10%
// of each dimension. Integer offsets keep mask levels exact.
func shift(p Pair, rng *rand.Rand) (Pair, error) {
	rows, cols := p.Image.Dims()
	dy := int(math.Round((2*rng.Float64() - 1) * maxShiftFraction * float64(rows)))
	dx := int(math.Round((2*rng.Float64() - 1) * maxShiftFraction * float64(cols)))

	move := func(src *mat.Dense) *mat.Dense {
		out := mat.NewDense(rows, cols, nil)
		for i := 0; i < rows; i++ {
			si := reflectIndex(i-dy, rows)
			row := out.RawRowView(i)
			for j := range row {
				row[j] = src.At(si, reflectIndex(j-dx, cols))
			}
		}
		return out
	}

	return Pair{Image: move(p.Image), Mask: move(p.Mask)}, nil
}

// rescaleWith zooms both planes about the centre by a factor drawn from
// [1/maxZoom, maxZoom], keeping the original size.
func rescaleWith(th mask.Thresholds) func(Pair, *rand.Rand) (Pair, error) {
	return func(p Pair, rng *rand.Rand) (Pair, error) {
		lo := 1 / maxZoom
		s := lo + rng.Float64()*(maxZoom-lo)
		cy, cx := centre(p.Image)
		source := func(i, j int) (float64, float64) {
			return cy + (float64(i)-cy)/s, cx + (float64(j)-cx)/s
		}

		return warpPair(p, source, th)
	}
}

// rotateWith rotates both planes about the centre by an angle drawn from
// [minAngleDeg, maxAngleDeg].
func rotateWith(th mask.Thresholds) func(Pair, *rand.Rand) (Pair, error) {
	return func(p Pair, rng *rand.Rand) (Pair, error) {
		deg := minAngleDeg + rng.Float64()*(maxAngleDeg-minAngleDeg)
		sin, cos := math.Sincos(deg * math.Pi / 180)
		cy, cx := centre(p.Image)
		source := func(i, j int) (float64, float64) {
			y, x := float64(i)-cy, float64(j)-cx
			return cy + cos*y - sin*x, cx + sin*y + cos*x
		}

		return warpPair(p, source, th)
	}
}

// warpPair resamples both planes through source and re-discretizes the mask.
func warpPair(p Pair, source func(i, j int) (float64, float64), th mask.Thresholds) (Pair, error) {
	m, err := mask.Discretize(warp(p.Mask, source), th)
	if err != nil {
		return Pair{}, err
	}

	return Pair{Image: warp(p.Image, source), Mask: m}, nil
}

// flip mirrors both planes: none, horizontally, vertically or both, uniformly.
func flip(p Pair, rng *rand.Rand) (Pair, error) {
	choice := rng.Intn(4)
	horizontal, vertical := choice&1 != 0, choice&2 != 0
	rows, cols := p.Image.Dims()

	mirror := func(src *mat.Dense) *mat.Dense {
		out := mat.NewDense(rows, cols, nil)
		for i := 0; i < rows; i++ {
			si := i
			if vertical {
				si = rows - 1 - i
			}
			row := out.RawRowView(i)
			for j := range row {
				sj := j
				if horizontal {
					sj = cols - 1 - j
				}
				row[j] = src.At(si, sj)
			}
		}
		return out
	}

	return Pair{Image: mirror(p.Image), Mask: mirror(p.Mask)}, nil
}
