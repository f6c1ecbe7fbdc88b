// SPDX-License-Identifier: MIT

package batch

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/axonseg/mask"
)

// Option customizes a Source before it reads its split.
// Option constructors panic on meaningless values; Source methods never do.
type Option func(*config)

// config aggregates every Source knob.
type config struct {
	batchSize  int
	thresholds mask.Thresholds
	patchSize  int
	rng        *rand.Rand
	logger     *zap.Logger
	workers    int
	cacheSize  int
}

// Defaults.
const (
	DefaultBatchSize = 8
	defaultWorkers   = 1
)

func newConfig(opts ...Option) config {
	cfg := config{
		batchSize:  DefaultBatchSize,
		thresholds: mask.DefaultThresholds(),
		logger:     zap.NewNop(),
		workers:    defaultWorkers,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return cfg
}

// WithBatchSize sets the number of samples per batch. Panics if n < 1.
func WithBatchSize(n int) Option {
	if n < 1 {
		panic("batch: WithBatchSize(n < 1)")
	}
	return func(c *config) { c.batchSize = n }
}

// WithThresholds sets the class threshold list. The list is copied.
// Panics when th is not a valid threshold list.
func WithThresholds(th mask.Thresholds) Option {
	if err := th.Validate(); err != nil {
		panic("batch: WithThresholds: " + err.Error())
	}
	th = th.Clone()
	return func(c *config) { c.thresholds = th }
}

// WithPatchSize requires decoded planes to be n×n. Zero disables the check.
// Panics if n < 0.
func WithPatchSize(n int) Option {
	if n < 0 {
		panic("batch: WithPatchSize(n < 0)")
	}
	return func(c *config) { c.patchSize = n }
}

// WithSeed seeds the generator used for shuffling, padding and augmentation.
func WithSeed(seed int64) Option {
	return func(c *config) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithRand supplies the generator directly. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("batch: WithRand(nil)")
	}
	return func(c *config) { c.rng = r }
}

// WithLogger sets the logger. Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("batch: WithLogger(nil)")
	}
	return func(c *config) { c.logger = l }
}

// WithWorkers sets how many sample files are decoded concurrently.
// Panics if n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic("batch: WithWorkers(n < 1)")
	}
	return func(c *config) { c.workers = n }
}

// WithCacheSize keeps up to n decoded samples in memory. Zero disables the
// cache. Panics if n < 0.
func WithCacheSize(n int) Option {
	if n < 0 {
		panic("batch: WithCacheSize(n < 0)")
	}
	return func(c *config) { c.cacheSize = n }
}
