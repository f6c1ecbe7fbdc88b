package weightmap_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/axonseg/mask"
	"github.com/katalvlaran/axonseg/weightmap"
)

// disk returns a size×size normalized mask with a filled disk of the given
// radius at the centre.
func disk(size int, radius float64) *mat.Dense {
	m := mat.NewDense(size, size, nil)
	c := float64(size-1) / 2
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			if math.Hypot(float64(i)-c, float64(j)-c) <= radius {
				m.Set(i, j, 1)
			}
		}
	}

	return m
}

func TestSynthesize_UniformBackground(t *testing.T) {
	m := mat.NewDense(8, 8, nil)
	w, err := weightmap.Synthesize(m, mask.DefaultThresholds())
	require.NoError(t, err)

	r, c := w.Dims()
	require.Equal(t, 8, r)
	require.Equal(t, 8, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.Equal(t, 1.0, w.At(i, j))
		}
	}
}

func TestSynthesize_UniformForeground(t *testing.T) {
	m := mat.NewDense(6, 6, nil)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			m.Set(i, j, 1)
		}
	}
	w, err := weightmap.Synthesize(m, mask.DefaultThresholds())
	require.NoError(t, err)

	first := w.At(0, 0)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			assert.InDelta(t, first, w.At(i, j), 1e-12)
		}
	}
	assert.False(t, math.IsInf(first, 0))
	assert.False(t, math.IsNaN(first))
}

func TestSynthesize_BoundaryEmphasis(t *testing.T) {
	m := disk(21, 7)
	w, err := weightmap.Synthesize(m, mask.DefaultThresholds())
	require.NoError(t, err)

	centre := w.At(10, 10)
	edge := w.At(10, 3) // on the disk rim
	bg := w.At(0, 0)

	assert.Equal(t, 1.0, bg)
	assert.Greater(t, edge, centre)
	assert.InDelta(t, 1+weightmap.W0First*math.Exp(-1.0/8), edge, 1e-9)
	assert.LessOrEqual(t, edge, 1+weightmap.W0First)
}

func TestSynthesize_InvalidInput(t *testing.T) {
	_, err := weightmap.Synthesize(mat.NewDense(2, 2, nil), mask.Thresholds{0.5})
	require.ErrorIs(t, err, mask.ErrThresholds)

	_, err = weightmap.Synthesize(&mat.Dense{}, mask.DefaultThresholds())
	require.ErrorIs(t, err, mask.ErrEmptyMask)
}

func TestPerClass_ThreeClasses(t *testing.T) {
	th, err := mask.NewThresholds(0, 0.3, 0.7)
	require.NoError(t, err)

	m := mat.NewDense(5, 5, nil)
	for j := 0; j < 5; j++ {
		m.Set(2, j, 0.5) // class 1 stripe
		m.Set(4, j, 1)   // class 2 stripe
	}
	per, labels, err := weightmap.PerClass(m, th)
	require.NoError(t, err)
	require.Equal(t, []int{5, 5, 3}, per.Shape())
	require.Len(t, labels, 25)

	at := func(i, j, c int) float64 {
		v, err := per.At(i, j, c)
		require.NoError(t, err)
		return v
	}
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			assert.Equal(t, 1.0, at(i, j, 0))
		}
	}
	// A one-pixel-wide stripe sits at distance 1 from the background.
	assert.InDelta(t, 1+weightmap.W0First*math.Exp(-1.0/8), at(2, 2, 1), 1e-9)
	assert.InDelta(t, 1+weightmap.W0Other*math.Exp(-1.0/8), at(4, 2, 2), 1e-9)

	combined, err := weightmap.Synthesize(m, th)
	require.NoError(t, err)
	assert.Equal(t, at(4, 2, 2), combined.At(4, 2))
	assert.Equal(t, 1.0, combined.At(0, 0))
}
