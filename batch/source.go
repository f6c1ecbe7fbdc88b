package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/axonseg/augment"
	"github.com/katalvlaran/axonseg/dataset"
	"github.com/katalvlaran/axonseg/mask"
	"github.com/katalvlaran/axonseg/tensor"
	"github.com/katalvlaran/axonseg/weightmap"
)

// ErrEmptySplit is returned by NewSource when the split has no samples.
var ErrEmptySplit = errors.New("batch: split has no samples")

// Request describes how the next batch is produced.
type Request struct {
	// Mode selects no, all, or one random augmentation per sample.
	Mode augment.Mode
	// Selection enables augmentations by name; empty means the default set.
	Selection map[string]bool
	// ExhaustOnce ends the batch early at the epoch boundary and restarts
	// with an ordered pool, so every sample is seen exactly once.
	ExhaustOnce bool
}

// Source produces batches from one split directory.
type Source struct {
	cfg    config
	split  Split
	reader *dataset.Reader
	log    *zap.Logger

	pool      []int
	cursor    int
	seen      int
	epochSize int
	resets    int
}

// NewSource opens <root>/Train or <root>/Validation and builds the first pool.
func NewSource(root string, split Split, opts ...Option) (*Source, error) {
	cfg := newConfig(opts...)
	reader, err := dataset.Open(filepath.Join(root, split.Dir()), cfg.patchSize, cfg.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("batch.NewSource: %w", err)
	}
	if reader.Size() == 0 {
		return nil, fmt.Errorf("batch.NewSource: %s: %w", reader.Dir(), ErrEmptySplit)
	}

	s := &Source{
		cfg:    cfg,
		split:  split,
		reader: reader,
		log:    cfg.logger.With(zap.String("split", split.String())),
	}
	s.pool = newPool(split, reader.Size(), cfg.batchSize, cfg.rng)
	s.epochSize = len(s.pool)
	s.log.Debug("source ready",
		zap.String("dir", reader.Dir()),
		zap.Int("size", reader.Size()),
		zap.Int("epoch_size", s.epochSize),
		zap.Int("batch_size", cfg.batchSize))

	return s, nil
}

// Size returns the number of samples in the split.
func (s *Source) Size() int { return s.reader.Size() }

// EpochSize returns the number of draws after which the pool is regenerated.
func (s *Source) EpochSize() int { return s.epochSize }

// Seen returns the number of samples drawn since the last regeneration.
func (s *Source) Seen() int { return s.seen }

// Resets returns how many times the pool has been regenerated.
func (s *Source) Resets() int { return s.resets }

// Split returns the split the source reads.
func (s *Source) Split() Split { return s.split }

// BatchSize returns the configured batch size.
func (s *Source) BatchSize() int { return s.cfg.batchSize }

// Thresholds returns a copy of the class thresholds.
func (s *Source) Thresholds() mask.Thresholds { return s.cfg.thresholds.Clone() }

// Pool returns a copy of the remaining sample order.
func (s *Source) Pool() []int {
	out := make([]int, len(s.pool)-s.cursor)
	copy(out, s.pool[s.cursor:])

	return out
}

// Reset regenerates the pool in the style of split and clears the
// seen-counter. It returns a copy of the new pool.
func (s *Source) Reset(split Split) []int {
	s.regenerate(split)

	return s.Pool()
}

// Next returns the next batch of images and label volumes.
// Pool and counters advance before files are read; a failed read is not
// retried and those samples are skipped.
func (s *Source) Next(ctx context.Context, req Request) (*Batch, error) {
	b, err := s.next(ctx, req, false)
	if err != nil {
		return nil, fmt.Errorf("Source.Next: %w", err)
	}

	return b, nil
}

// NextWithWeights is Next plus a boundary-emphasis weight map per sample.
func (s *Source) NextWithWeights(ctx context.Context, req Request) (*Batch, error) {
	b, err := s.next(ctx, req, true)
	if err != nil {
		return nil, fmt.Errorf("Source.NextWithWeights: %w", err)
	}

	return b, nil
}

func (s *Source) next(ctx context.Context, req Request, withWeights bool) (*Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	indices := s.draw(req.ExhaustOnce)

	samples, err := s.load(ctx, indices)
	if err != nil {
		return nil, err
	}

	th := s.cfg.thresholds
	images := make([]*mat.Dense, len(samples))
	labels := make([]*tensor.Tensor, len(samples))
	var weights []*mat.Dense
	if withWeights {
		weights = make([]*mat.Dense, len(samples))
	}

	for k, smp := range samples {
		p, err := augment.Apply(req.Mode, augment.Pair{Image: smp.Image, Mask: smp.Mask}, req.Selection, th, s.cfg.rng)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", smp.Index, err)
		}
		discrete, err := mask.Discretize(p.Mask, th)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", smp.Index, err)
		}
		if withWeights {
			if weights[k], err = weightmap.Synthesize(discrete, th); err != nil {
				return nil, fmt.Errorf("sample %d: %w", smp.Index, err)
			}
		}
		images[k] = Standardize(EqualizeHist(p.Image))
		if labels[k], err = mask.ToLabelVolume(discrete, th); err != nil {
			return nil, fmt.Errorf("sample %d: %w", smp.Index, err)
		}
	}

	b, err := Shape(images, labels, weights)
	if err != nil {
		return nil, err
	}
	b.Indices = indices
	s.log.Debug("batch ready",
		zap.Ints("indices", indices),
		zap.Stringer("images", b.Images),
		zap.Stringer("labels", b.Labels),
		zap.Int("seen", s.seen))

	return b, nil
}

// draw takes up to one batch of indices from the pool, regenerating it at
// the epoch boundary. With exhaustOnce the batch stops at the boundary.
func (s *Source) draw(exhaustOnce bool) []int {
	indices := make([]int, 0, s.cfg.batchSize)
	for len(indices) < s.cfg.batchSize {
		if s.cursor >= len(s.pool) {
			s.log.Warn("pool exhausted before epoch end, regenerating",
				zap.Int("seen", s.seen), zap.Int("epoch_size", s.epochSize))
			s.regenerate(s.split)
		}
		indices = append(indices, s.pool[s.cursor])
		s.cursor++
		s.seen++

		if s.seen == s.epochSize {
			if exhaustOnce {
				s.regenerate(Validation)
				break
			}
			s.regenerate(Train)
		}
	}

	return indices
}

func (s *Source) regenerate(split Split) {
	s.pool = newPool(split, s.reader.Size(), s.cfg.batchSize, s.cfg.rng)
	s.cursor = 0
	s.seen = 0
	s.resets++
	s.log.Debug("pool regenerated", zap.Stringer("style", split), zap.Int("length", len(s.pool)))
}

// load decodes the samples concurrently, bounded by the worker count, and
// returns them in draw order.
func (s *Source) load(ctx context.Context, indices []int) ([]dataset.Sample, error) {
	out := make([]dataset.Sample, len(indices))
	if s.cfg.workers == 1 {
		for k, i := range indices {
			smp, err := s.reader.Load(i)
			if err != nil {
				return nil, err
			}
			out[k] = smp
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.workers)
	for k, i := range indices {
		k, i := k, i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			smp, err := s.reader.Load(i)
			if err != nil {
				return err
			}
			out[k] = smp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
