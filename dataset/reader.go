package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru"
	"gonum.org/v1/gonum/mat"
)

// Sample is one decoded image/mask pair.
type Sample struct {
	Index int
	Image *mat.Dense
	Mask  *mat.Dense
}

// Reader loads samples from one split directory. Load is safe for concurrent
// use.
type Reader struct {
	dir       string
	size      int
	patchSize int
	cache     *lru.Cache
}

// Open counts the image_*.png files in dir. A positive patchSize makes Load
// reject planes that are not patchSize×patchSize; cacheSize > 0 keeps that
// many decoded samples in an LRU cache.
// An unreadable dir is a *FileAccessError.
func Open(dir string, patchSize, cacheSize int) (*Reader, error) {
	n, err := countImages(dir)
	if err != nil {
		return nil, fmt.Errorf("dataset.Open: %w", err)
	}
	r := &Reader{dir: dir, size: n, patchSize: patchSize}
	if cacheSize > 0 {
		if r.cache, err = lru.New(cacheSize); err != nil {
			return nil, fmt.Errorf("dataset.Open: %w", err)
		}
	}

	return r, nil
}

// countImages matches entry names only, so dir itself may contain pattern
// characters.
func countImages(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, &FileAccessError{Path: dir, Err: err}
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := filepath.Match("image_*.png", e.Name()); ok {
			n++
		}
	}

	return n, nil
}

// Dir returns the split directory.
func (r *Reader) Dir() string { return r.dir }

// Size returns the number of samples found by Open.
func (r *Reader) Size() int { return r.size }

// ImagePath returns the image file of sample i.
func (r *Reader) ImagePath(i int) string {
	return filepath.Join(r.dir, fmt.Sprintf("image_%d.png", i))
}

// MaskPath returns the mask file of sample i.
func (r *Reader) MaskPath(i int) string {
	return filepath.Join(r.dir, fmt.Sprintf("mask_%d.png", i))
}

// Load decodes sample i. Failures to read either file are *FileAccessError.
func (r *Reader) Load(i int) (Sample, error) {
	if i < 0 || i >= r.size {
		return Sample{}, fmt.Errorf("dataset.Load: index %d of %d: %w", i, r.size, ErrIndexOutOfRange)
	}
	if r.cache != nil {
		if v, ok := r.cache.Get(i); ok {
			return clone(v.(Sample)), nil
		}
	}

	img, err := decodePNG(r.ImagePath(i))
	if err != nil {
		return Sample{}, fmt.Errorf("dataset.Load: %w", err)
	}
	msk, err := decodePNG(r.MaskPath(i))
	if err != nil {
		return Sample{}, fmt.Errorf("dataset.Load: %w", err)
	}
	if err = r.checkSize(img, msk); err != nil {
		return Sample{}, fmt.Errorf("dataset.Load: sample %d: %w", i, err)
	}

	s := Sample{Index: i, Image: img, Mask: msk}
	if r.cache != nil {
		r.cache.Add(i, clone(s))
	}

	return s, nil
}

func (r *Reader) checkSize(img, msk *mat.Dense) error {
	ir, ic := img.Dims()
	mr, mc := msk.Dims()
	if ir != mr || ic != mc {
		return fmt.Errorf("image %dx%d, mask %dx%d: %w", ir, ic, mr, mc, ErrSizeMismatch)
	}
	if r.patchSize > 0 && (ir != r.patchSize || ic != r.patchSize) {
		return fmt.Errorf("got %dx%d, want %dx%d: %w", ir, ic, r.patchSize, r.patchSize, ErrSizeMismatch)
	}

	return nil
}

func clone(s Sample) Sample {
	return Sample{Index: s.Index, Image: mat.DenseCopyOf(s.Image), Mask: mat.DenseCopyOf(s.Mask)}
}
