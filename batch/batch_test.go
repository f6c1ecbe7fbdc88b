package batch_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/axonseg/augment"
	"github.com/katalvlaran/axonseg/batch"
	"github.com/katalvlaran/axonseg/dataset"
	"github.com/katalvlaran/axonseg/dataset/datasettest"
	"github.com/katalvlaran/axonseg/mask"
	"github.com/katalvlaran/axonseg/tensor"
)

// newSource writes n samples of size×size into a fresh root and opens split.
func newSource(t *testing.T, split batch.Split, n, size int, opts ...batch.Option) (*batch.Source, string) {
	t.Helper()
	root := t.TempDir()
	datasettest.WriteSplit(t, root, split.Dir(), n, size)
	opts = append([]batch.Option{batch.WithSeed(1), batch.WithLogger(zaptest.NewLogger(t))}, opts...)
	src, err := batch.NewSource(root, split, opts...)
	require.NoError(t, err)

	return src, root
}

//----------------------------------------------------------------------------//
// Pools
//----------------------------------------------------------------------------//

func TestPool_TrainPadded(t *testing.T) {
	src, _ := newSource(t, batch.Train, 10, 4, batch.WithBatchSize(4))
	pool := src.Pool()
	require.Len(t, pool, 12)
	assert.Equal(t, 12, src.EpochSize())
	assert.Equal(t, 10, src.Size())

	head := append([]int(nil), pool[:10]...)
	sort.Ints(head)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, head)
	assert.NotEqual(t, pool[10], pool[11])
	for _, v := range pool[10:] {
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 10)
	}
}

func TestPool_Validation(t *testing.T) {
	src, _ := newSource(t, batch.Validation, 10, 4, batch.WithBatchSize(4))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, src.Pool())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, src.Reset(batch.Validation))
	assert.Len(t, src.Reset(batch.Train), 12)
}

func TestPool_PaddingLargerThanSet(t *testing.T) {
	src, _ := newSource(t, batch.Train, 3, 4, batch.WithBatchSize(8))
	assert.Len(t, src.Pool(), 8)
}

func TestPool_ExactMultiple(t *testing.T) {
	src, _ := newSource(t, batch.Train, 8, 4, batch.WithBatchSize(4))
	assert.Len(t, src.Pool(), 8)
}

//----------------------------------------------------------------------------//
// Batches
//----------------------------------------------------------------------------//

func TestNext_EpochCycle(t *testing.T) {
	src, _ := newSource(t, batch.Train, 20, 8, batch.WithBatchSize(5))
	ctx := context.Background()

	for call := 1; call <= 4; call++ {
		b, err := src.Next(ctx, batch.Request{})
		require.NoError(t, err, "call %d", call)
		assert.Equal(t, []int{5, 8, 8}, b.Images.Shape())
		assert.Equal(t, []int{5, 8, 8, 2}, b.Labels.Shape())
		assert.Nil(t, b.Weights)
		assert.Len(t, b.Indices, 5)
	}
	assert.Equal(t, 1, src.Resets())
	assert.Equal(t, 0, src.Seen())
	assert.Len(t, src.Pool(), 20)

	b, err := src.Next(ctx, batch.Request{})
	require.NoError(t, err)
	assert.Equal(t, 5, b.Size())
	assert.Equal(t, 5, src.Seen())
}

func TestNext_ExhaustOnce(t *testing.T) {
	src, _ := newSource(t, batch.Validation, 10, 4, batch.WithBatchSize(4))
	ctx := context.Background()
	req := batch.Request{ExhaustOnce: true}

	var sizes []int
	var seen []int
	for i := 0; i < 3; i++ {
		b, err := src.Next(ctx, req)
		require.NoError(t, err)
		sizes = append(sizes, b.Size())
		seen = append(seen, b.Indices...)
	}
	assert.Equal(t, []int{4, 4, 2}, sizes)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, seen)
	assert.Equal(t, 1, src.Resets())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, src.Pool())
}

func TestNext_LabelsSumToOne(t *testing.T) {
	th, err := mask.NewThresholds(0, 0.3, 0.7)
	require.NoError(t, err)
	src, _ := newSource(t, batch.Train, 4, 8, batch.WithBatchSize(2), batch.WithThresholds(th))

	b, err := src.Next(context.Background(), batch.Request{Mode: augment.ModeAll})
	require.NoError(t, err)
	require.Equal(t, []int{2, 8, 8, 3}, b.Labels.Shape())

	data := b.Labels.Data()
	for p := 0; p < len(data); p += 3 {
		assert.Equal(t, 1.0, data[p]+data[p+1]+data[p+2])
	}
}

func TestNext_ImagesStandardized(t *testing.T) {
	src, _ := newSource(t, batch.Validation, 2, 8, batch.WithBatchSize(2))
	b, err := src.Next(context.Background(), batch.Request{})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		img, err := b.ImagePlane(i)
		require.NoError(t, err)
		mean, std := stat.PopMeanStdDev(img.RawMatrix().Data, nil)
		assert.InDelta(t, 0, mean, 1e-9)
		assert.InDelta(t, 1, std, 1e-9)
	}
}

func TestNextWithWeights(t *testing.T) {
	src, _ := newSource(t, batch.Validation, 3, 8, batch.WithBatchSize(3))
	b, err := src.NextWithWeights(context.Background(), batch.Request{})
	require.NoError(t, err)
	require.NotNil(t, b.Weights)
	assert.Equal(t, []int{3, 8, 8}, b.Weights.Shape())

	w := b.Weights.Data()
	assert.GreaterOrEqual(t, floats.Min(w), 1.0)
	assert.Greater(t, floats.Max(w), 1.0)
}

func TestNext_LabelPlane(t *testing.T) {
	src, _ := newSource(t, batch.Validation, 1, 8, batch.WithBatchSize(1))
	b, err := src.Next(context.Background(), batch.Request{})
	require.NoError(t, err)

	fg, err := b.LabelPlane(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, fg.At(4, 4))
	assert.Equal(t, 0.0, fg.At(0, 0))

	_, err = b.LabelPlane(0, 2)
	require.ErrorIs(t, err, tensor.ErrOutOfRange)
}

func TestNext_SeededDeterminism(t *testing.T) {
	run := func() *batch.Batch {
		src, _ := newSource(t, batch.Train, 6, 8, batch.WithBatchSize(3), batch.WithWorkers(3))
		b, err := src.NextWithWeights(context.Background(), batch.Request{Mode: augment.ModeRandom})
		require.NoError(t, err)
		return b
	}
	a, b := run(), run()
	assert.Equal(t, a.Indices, b.Indices)
	assert.Equal(t, a.Images.Data(), b.Images.Data())
	assert.Equal(t, a.Labels.Data(), b.Labels.Data())
	assert.Equal(t, a.Weights.Data(), b.Weights.Data())
}

func TestNext_Errors(t *testing.T) {
	for _, workers := range []int{1, 3} {
		src, root := newSource(t, batch.Validation, 3, 4, batch.WithBatchSize(3), batch.WithWorkers(workers))
		require.NoError(t, os.Remove(filepath.Join(root, "Validation", "mask_1.png")))

		_, err := src.Next(context.Background(), batch.Request{})
		require.ErrorIs(t, err, dataset.ErrFileAccess, "workers=%d", workers)
	}

	src, _ := newSource(t, batch.Validation, 2, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := src.Next(ctx, batch.Request{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewSource_Errors(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Train"), 0o755))
	_, err := batch.NewSource(root, batch.Train)
	require.ErrorIs(t, err, batch.ErrEmptySplit)

	_, err = batch.NewSource(root, batch.Validation)
	require.ErrorIs(t, err, dataset.ErrFileAccess)

	src, _ := newSource(t, batch.Train, 2, 4, batch.WithPatchSize(8), batch.WithBatchSize(2))
	_, err = src.Next(context.Background(), batch.Request{})
	require.ErrorIs(t, err, dataset.ErrSizeMismatch)
}

func TestNewSource_BracketedRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "set[1]")
	datasettest.WriteSplit(t, root, batch.Train.Dir(), 4, 8)
	src, err := batch.NewSource(root, batch.Train, batch.WithBatchSize(2), batch.WithSeed(1))
	require.NoError(t, err)
	assert.Equal(t, 4, src.Size())

	b, err := src.Next(context.Background(), batch.Request{})
	require.NoError(t, err)
	assert.Equal(t, 2, b.Size())
}

func TestOptions_Panic(t *testing.T) {
	assert.Panics(t, func() { batch.WithBatchSize(0) })
	assert.Panics(t, func() { batch.WithWorkers(0) })
	assert.Panics(t, func() { batch.WithCacheSize(-1) })
	assert.Panics(t, func() { batch.WithPatchSize(-1) })
	assert.Panics(t, func() { batch.WithRand(nil) })
	assert.Panics(t, func() { batch.WithLogger(nil) })
	assert.Panics(t, func() { batch.WithThresholds(mask.Thresholds{0.5, 0.2}) })
}

func TestParseSplit(t *testing.T) {
	s, err := batch.ParseSplit("Validation")
	require.NoError(t, err)
	assert.Equal(t, batch.Validation, s)
	assert.Equal(t, "train", batch.Train.String())

	_, err = batch.ParseSplit("test")
	require.ErrorIs(t, err, batch.ErrUnknownSplit)
}

//----------------------------------------------------------------------------//
// Shaping and preprocessing
//----------------------------------------------------------------------------//

func TestShape_SingleSample(t *testing.T) {
	img := mat.NewDense(256, 256, nil)
	lbl, err := tensor.New(256, 256, 2)
	require.NoError(t, err)

	b, err := batch.Shape([]*mat.Dense{img}, []*tensor.Tensor{lbl}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 256, 256}, b.Images.Shape())
	assert.Equal(t, []int{1, 256, 256, 2}, b.Labels.Shape())
	assert.Nil(t, b.Weights)
}

func TestShape_Errors(t *testing.T) {
	lbl, err := tensor.New(4, 4, 2)
	require.NoError(t, err)
	other, err := tensor.New(5, 4, 2)
	require.NoError(t, err)
	img := mat.NewDense(4, 4, nil)

	_, err = batch.Shape(nil, nil, nil)
	require.ErrorIs(t, err, batch.ErrEmptyBatch)

	_, err = batch.Shape([]*mat.Dense{img, img}, []*tensor.Tensor{lbl}, nil)
	require.ErrorIs(t, err, tensor.ErrDimensionMismatch)

	_, err = batch.Shape([]*mat.Dense{img, img}, []*tensor.Tensor{lbl, other}, nil)
	require.ErrorIs(t, err, tensor.ErrDimensionMismatch)

	_, err = batch.Shape([]*mat.Dense{img}, []*tensor.Tensor{lbl}, []*mat.Dense{mat.NewDense(3, 3, nil)})
	require.ErrorIs(t, err, tensor.ErrDimensionMismatch)
}

func TestEqualizeHist(t *testing.T) {
	t.Run("constant", func(t *testing.T) {
		out := batch.EqualizeHist(mat.NewDense(3, 3, []float64{7, 7, 7, 7, 7, 7, 7, 7, 7}))
		for _, v := range out.RawMatrix().Data {
			assert.Equal(t, 1.0, v)
		}
	})
	t.Run("monotone", func(t *testing.T) {
		img := mat.NewDense(1, 6, []float64{0, 10, 20, 30, 200, 255})
		out := batch.EqualizeHist(img).RawMatrix().Data
		for i := 1; i < len(out); i++ {
			assert.GreaterOrEqual(t, out[i], out[i-1])
		}
		assert.Equal(t, 1.0, out[len(out)-1])
		assert.Greater(t, out[0], 0.0)
		assert.Equal(t, 0.0, img.At(0, 0), "input mutated")
	})
}

func TestStandardize(t *testing.T) {
	out := batch.Standardize(mat.NewDense(1, 4, []float64{1, 2, 3, 4}))
	mean, std := stat.PopMeanStdDev(out.RawMatrix().Data, nil)
	assert.InDelta(t, 0, mean, 1e-12)
	assert.InDelta(t, 1, std, 1e-12)

	flat := batch.Standardize(mat.NewDense(1, 3, []float64{5, 5, 5}))
	assert.Equal(t, []float64{0, 0, 0}, flat.RawMatrix().Data)
}
