// SPDX-License-Identifier: MIT

package unet

import (
	"math"

	"go.uber.org/zap"
)

// Option customizes Build. Constructors panic on meaningless values.
type Option func(*buildConfig)

type buildConfig struct {
	decay    float64
	hasDecay bool
	logger   *zap.Logger
}

func newBuildConfig(opts ...Option) buildConfig {
	bc := buildConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&bc)
	}

	return bc
}

// WithBatchNormDecay overrides the configured starting decay, typically with
// Config.BatchNormDecayAt(step) when rebuilding during training.
// Panics unless 0 <= d <= 1.
func WithBatchNormDecay(d float64) Option {
	if math.IsNaN(d) || d < 0 || d > 1 {
		panic("unet: WithBatchNormDecay outside [0,1]")
	}
	return func(bc *buildConfig) {
		bc.decay = d
		bc.hasDecay = true
	}
}

// WithLogger logs every materialized layer at debug level. Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("unet: WithLogger(nil)")
	}
	return func(bc *buildConfig) { bc.logger = l }
}
