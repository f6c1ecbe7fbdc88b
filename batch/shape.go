package batch

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/axonseg/tensor"
)

// ErrEmptyBatch is returned by Shape when no sample is supplied.
var ErrEmptyBatch = errors.New("batch: empty batch")

// Batch holds the stacked tensors of one batch.
type Batch struct {
	// Images has shape [B, H, W].
	Images *tensor.Tensor
	// Labels has shape [B, H, W, n].
	Labels *tensor.Tensor
	// Weights has shape [B, H, W]; nil unless weights were requested.
	Weights *tensor.Tensor
	// Indices lists the sample index behind each batch entry.
	Indices []int
}

// Size returns the number of samples B.
func (b *Batch) Size() int {
	return b.Images.Dim(0)
}

// LabelPlane returns channel c of sample i's label volume as an [H, W] plane.
func (b *Batch) LabelPlane(i, c int) (*mat.Dense, error) {
	shape := b.Labels.Shape()
	if i < 0 || i >= shape[0] || c < 0 || c >= shape[3] {
		return nil, fmt.Errorf("Batch.LabelPlane: sample %d channel %d of %v: %w", i, c, shape, tensor.ErrOutOfRange)
	}
	h, w, n := shape[1], shape[2], shape[3]
	data := b.Labels.Data()[i*h*w*n : (i+1)*h*w*n]
	out := make([]float64, h*w)
	for p := range out {
		out[p] = data[p*n+c]
	}

	return mat.NewDense(h, w, out), nil
}

// ImagePlane returns sample i's preprocessed image as an [H, W] plane.
func (b *Batch) ImagePlane(i int) (*mat.Dense, error) {
	shape := b.Images.Shape()
	if i < 0 || i >= shape[0] {
		return nil, fmt.Errorf("Batch.ImagePlane: sample %d of %v: %w", i, shape, tensor.ErrOutOfRange)
	}
	h, w := shape[1], shape[2]
	out := make([]float64, h*w)
	copy(out, b.Images.Data()[i*h*w:(i+1)*h*w])

	return mat.NewDense(h, w, out), nil
}

// Shape stacks per-sample planes and label volumes into batch tensors.
// weights may be nil. A single sample is reshaped explicitly to a leading
// axis of length one.
// Returns ErrEmptyBatch for no samples and tensor.ErrDimensionMismatch when
// list lengths or sample shapes disagree.
func Shape(images []*mat.Dense, labels []*tensor.Tensor, weights []*mat.Dense) (*Batch, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("batch.Shape: %w", ErrEmptyBatch)
	}
	if len(labels) != len(images) || (weights != nil && len(weights) != len(images)) {
		return nil, fmt.Errorf("batch.Shape: %d images, %d labels, %d weights: %w",
			len(images), len(labels), len(weights), tensor.ErrDimensionMismatch)
	}
	for i, img := range images {
		r, c := img.Dims()
		ls := labels[i].Shape()
		if len(ls) != 3 || ls[0] != r || ls[1] != c {
			return nil, fmt.Errorf("batch.Shape: sample %d image %dx%d, labels %v: %w", i, r, c, ls, tensor.ErrDimensionMismatch)
		}
	}

	var (
		b   = &Batch{}
		err error
	)
	if b.Images, err = stackPlanes(images); err != nil {
		return nil, fmt.Errorf("batch.Shape: images: %w", err)
	}
	if b.Labels, err = stackVolumes(labels); err != nil {
		return nil, fmt.Errorf("batch.Shape: labels: %w", err)
	}
	if weights != nil {
		if b.Weights, err = stackPlanes(weights); err != nil {
			return nil, fmt.Errorf("batch.Shape: weights: %w", err)
		}
		if !tensor.SameShape(b.Weights.Shape(), b.Images.Shape()) {
			return nil, fmt.Errorf("batch.Shape: weights %v, images %v: %w", b.Weights.Shape(), b.Images.Shape(), tensor.ErrDimensionMismatch)
		}
	}

	return b, nil
}

func stackPlanes(planes []*mat.Dense) (*tensor.Tensor, error) {
	if len(planes) == 1 {
		r, c := planes[0].Dims()
		return tensor.FromPlane(planes[0]).Reshape(1, r, c)
	}
	ts := make([]*tensor.Tensor, len(planes))
	for i, p := range planes {
		ts[i] = tensor.FromPlane(p)
	}

	return tensor.Stack(ts)
}

func stackVolumes(vols []*tensor.Tensor) (*tensor.Tensor, error) {
	if len(vols) == 1 {
		s := vols[0].Shape()
		return vols[0].Clone().Reshape(append([]int{1}, s...)...)
	}

	return tensor.Stack(vols)
}
