package augment_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/axonseg/augment"
	"github.com/katalvlaran/axonseg/mask"
)

// samplePair builds a 16×16 gradient image and a square mask in 8-bit range.
func samplePair() augment.Pair {
	img := mat.NewDense(16, 16, nil)
	m := mat.NewDense(16, 16, nil)
	for i := 0; i < 16; i++ {
		for j := 0; j < 16; j++ {
			img.Set(i, j, float64(i*16+j))
			if i >= 4 && i < 12 && j >= 4 && j < 12 {
				m.Set(i, j, 255)
			}
		}
	}

	return augment.Pair{Image: img, Mask: m}
}

func kindsOf(ts []augment.Transform) []augment.Kind {
	out := make([]augment.Kind, len(ts))
	for i, t := range ts {
		out[i] = t.Kind()
	}

	return out
}

//----------------------------------------------------------------------------//
// Selection
//----------------------------------------------------------------------------//

func TestSelect(t *testing.T) {
	th := mask.DefaultThresholds()
	tests := []struct {
		name      string
		selection map[string]bool
		want      []augment.Kind
	}{
		{"empty gives default set", nil, augment.Kinds()},
		{"single", map[string]bool{"flipping": true}, []augment.Kind{augment.Flip}},
		{"prefixed keys", map[string]bool{"da_shifting": true, "1-Elastic": true}, []augment.Kind{augment.Shift, augment.Elastic}},
		{"canonical order", map[string]bool{"flipping": true, "random_rotation": true, "rescaling": true}, []augment.Kind{augment.Rescale, augment.RandomRotation, augment.Flip}},
		{"false entries skipped", map[string]bool{"shifting": false, "flipping": true}, []augment.Kind{augment.Flip}},
		{"unknown keys ignored", map[string]bool{"blur": true, "flipping": true}, []augment.Kind{augment.Flip}},
		{"only unknown keys", map[string]bool{"blur": true}, []augment.Kind{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, kindsOf(augment.Select(tc.selection, th)))
		})
	}
}

func TestSelect_CopiesThresholds(t *testing.T) {
	th := mask.Thresholds{0, 0.5}
	ts := augment.Select(map[string]bool{"rescaling": true}, th)
	th[1] = 2 // would fail validation if shared

	_, err := ts[0].Apply(samplePair(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "shifting", augment.Shift.String())
	assert.Equal(t, "random_rotation", augment.RandomRotation.String())
	assert.Equal(t, "unknown", augment.Kind(42).String())
}

//----------------------------------------------------------------------------//
// Modes
//----------------------------------------------------------------------------//

func TestParseMode(t *testing.T) {
	for in, want := range map[string]augment.Mode{
		"": augment.ModeNone, "None": augment.ModeNone, "ALL": augment.ModeAll, "random": augment.ModeRandom,
	} {
		got, err := augment.ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := augment.ParseMode("sometimes")
	require.ErrorIs(t, err, augment.ErrUnknownMode)
}

func TestApply_None(t *testing.T) {
	p := samplePair()
	out, err := augment.Apply(augment.ModeNone, p, nil, mask.DefaultThresholds(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Same(t, p.Image, out.Image)
	assert.Same(t, p.Mask, out.Mask)
}

func TestApplyRandom_Empty(t *testing.T) {
	p := samplePair()
	out, err := augment.ApplyRandom(p, nil, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Same(t, p.Image, out.Image)
}

func TestApplyAll_Deterministic(t *testing.T) {
	th := mask.DefaultThresholds()
	run := func() augment.Pair {
		out, err := augment.Apply(augment.ModeAll, samplePair(), nil, th, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		return out
	}
	a, b := run(), run()
	assert.True(t, mat.Equal(a.Image, b.Image))
	assert.True(t, mat.Equal(a.Mask, b.Mask))
}

//----------------------------------------------------------------------------//
// Transforms
//----------------------------------------------------------------------------//

func TestTransforms_PreserveShapeAndInput(t *testing.T) {
	th := mask.DefaultThresholds()
	rng := rand.New(rand.NewSource(3))
	for _, tr := range augment.Select(nil, th) {
		t.Run(tr.Kind().String(), func(t *testing.T) {
			p := samplePair()
			before := mat.DenseCopyOf(p.Image)
			beforeMask := mat.DenseCopyOf(p.Mask)

			out, err := tr.Apply(p, rng)
			require.NoError(t, err)

			r, c := out.Image.Dims()
			assert.Equal(t, 16, r)
			assert.Equal(t, 16, c)
			r, c = out.Mask.Dims()
			assert.Equal(t, 16, r)
			assert.Equal(t, 16, c)
			assert.True(t, mat.Equal(before, p.Image), "image mutated")
			assert.True(t, mat.Equal(beforeMask, p.Mask), "mask mutated")
		})
	}
}

func TestInterpolatingTransforms_RediscretizeMask(t *testing.T) {
	th := mask.DefaultThresholds()
	sel := map[string]bool{"rescaling": true, "random_rotation": true, "elastic": true}
	for _, tr := range augment.Select(sel, th) {
		t.Run(tr.Kind().String(), func(t *testing.T) {
			out, err := tr.Apply(samplePair(), rand.New(rand.NewSource(11)))
			require.NoError(t, err)
			for _, v := range out.Mask.RawMatrix().Data {
				assert.Contains(t, []float64{th.Level(0), th.Level(1)}, v)
			}
		})
	}
}

func TestFlip_IsPermutation(t *testing.T) {
	p := samplePair()
	ts := augment.Select(map[string]bool{"flipping": true}, mask.DefaultThresholds())
	out, err := ts[0].Apply(p, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	assert.InDelta(t, mat.Sum(p.Image), mat.Sum(out.Image), 1e-9)
	assert.InDelta(t, mat.Sum(p.Mask), mat.Sum(out.Mask), 1e-9)
}

func TestShift_KeepsMaskValues(t *testing.T) {
	ts := augment.Select(map[string]bool{"shifting": true}, mask.DefaultThresholds())
	out, err := ts[0].Apply(samplePair(), rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	for _, v := range out.Mask.RawMatrix().Data {
		assert.Contains(t, []float64{0, 255}, v)
	}
}

func TestApply_BadPair(t *testing.T) {
	ts := augment.Select(nil, mask.DefaultThresholds())
	rng := rand.New(rand.NewSource(1))

	_, err := augment.ApplyAll(augment.Pair{Image: mat.NewDense(2, 2, nil)}, ts, rng)
	require.ErrorIs(t, err, augment.ErrNilPlane)

	_, err = augment.ApplyAll(augment.Pair{Image: mat.NewDense(2, 2, nil), Mask: mat.NewDense(3, 2, nil)}, ts, rng)
	require.ErrorIs(t, err, augment.ErrPairShape)
}
