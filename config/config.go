// Package config reads the training configuration file (YAML, or JSON as a
// YAML subset) and turns its raw keys into typed values for the other
// packages. It is the only place where configuration keys are spelled out.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/axonseg/augment"
	"github.com/katalvlaran/axonseg/batch"
	"github.com/katalvlaran/axonseg/mask"
	"github.com/katalvlaran/axonseg/unet"
)

// ErrInvalidConfig marks an unreadable or inconsistent configuration file.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Augmentation is the data_augmentation section.
type Augmentation struct {
	Type            string          `yaml:"type"`
	Transformations map[string]bool `yaml:"transformations"`
}

// File mirrors the configuration file.
type File struct {
	TrainingsetPatchsize        int          `yaml:"trainingset_patchsize"`
	NClasses                    int          `yaml:"n_classes"`
	Depth                       int          `yaml:"depth"`
	Dropout                     float64      `yaml:"dropout"`
	ConvolutionPerLayer         []int        `yaml:"convolution_per_layer"`
	SizeOfConvolutionsPerLayer  [][]int      `yaml:"size_of_convolutions_per_layer"`
	FeaturesPerConvolution      [][][]int    `yaml:"features_per_convolution"`
	Downsampling                string       `yaml:"downsampling"`
	BatchNormActivate           bool         `yaml:"batch_norm_activate"`
	BatchNormDecayStartingDecay float64      `yaml:"batch_norm_decay_starting_decay"`
	BatchNormDecayEndingDecay   float64      `yaml:"batch_norm_decay_ending_decay"`
	BatchNormDecayDecayPeriod   int          `yaml:"batch_norm_decay_decay_period"`
	Thresholds                  []float64    `yaml:"thresholds"`
	BatchSize                   int          `yaml:"batch_size"`
	DataAugmentation            Augmentation `yaml:"data_augmentation"`

	present map[string]bool
}

// networkKeys are the keys Network refuses to default.
var networkKeys = []string{
	"trainingset_patchsize",
	"n_classes",
	"depth",
	"dropout",
	"convolution_per_layer",
	"size_of_convolutions_per_layer",
	"features_per_convolution",
	"downsampling",
	"batch_norm_activate",
	"batch_norm_decay_starting_decay",
	"batch_norm_decay_ending_decay",
	"batch_norm_decay_decay_period",
}

// UnmarshalYAML decodes the document and records which top-level keys carry
// a non-null value.
func (f *File) UnmarshalYAML(n *yaml.Node) error {
	type plain File
	if err := n.Decode((*plain)(f)); err != nil {
		return err
	}
	f.present = make(map[string]bool)
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i+1].Tag != "!!null" {
			f.present[n.Content[i].Value] = true
		}
	}

	return nil
}

// Has reports whether key was set in the parsed document.
func (f *File) Has(key string) bool { return f.present[key] }

// Load reads and parses the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w: %w", ErrInvalidConfig, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config.Load %s: %w", path, err)
	}

	return f, nil
}

// Parse decodes a YAML or JSON document. Unknown keys are ignored; an empty
// document is an error.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config.Parse: empty document: %w", ErrInvalidConfig)
		}
		return nil, fmt.Errorf("config.Parse: %w: %w", ErrInvalidConfig, err)
	}

	return &f, nil
}

// Network returns the validated network configuration. Every network key must
// be present; missing keys are reported together.
func (f *File) Network() (unet.Config, error) {
	var missing []string
	for _, k := range networkKeys {
		if !f.Has(k) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return unet.Config{}, fmt.Errorf("File.Network: missing %s: %w: %w",
			strings.Join(missing, ", "), ErrInvalidConfig, unet.ErrConfiguration)
	}

	cfg := unet.Config{
		PatchSize:                   f.TrainingsetPatchsize,
		NClasses:                    f.NClasses,
		Depth:                       f.Depth,
		Dropout:                     f.Dropout,
		ConvolutionPerLayer:         f.ConvolutionPerLayer,
		SizeOfConvolutionsPerLayer:  f.SizeOfConvolutionsPerLayer,
		FeaturesPerConvolution:      f.FeaturesPerConvolution,
		Downsampling:                unet.Downsampling(f.Downsampling),
		BatchNormActivate:           f.BatchNormActivate,
		BatchNormDecayStartingDecay: f.BatchNormDecayStartingDecay,
		BatchNormDecayEndingDecay:   f.BatchNormDecayEndingDecay,
		BatchNormDecayDecayPeriod:   f.BatchNormDecayDecayPeriod,
	}
	if err := cfg.Validate(); err != nil {
		return unet.Config{}, fmt.Errorf("File.Network: %w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// ThresholdList returns the class thresholds, or [0, 0.5] when the key is
// absent.
func (f *File) ThresholdList() (mask.Thresholds, error) {
	if len(f.Thresholds) == 0 {
		return mask.DefaultThresholds(), nil
	}
	th, err := mask.NewThresholds(f.Thresholds...)
	if err != nil {
		return nil, fmt.Errorf("File.ThresholdList: %w: %w", ErrInvalidConfig, err)
	}

	return th, nil
}

// BatchSizeOrDefault returns batch_size, or batch.DefaultBatchSize when unset.
func (f *File) BatchSizeOrDefault() (int, error) {
	switch {
	case f.BatchSize == 0:
		return batch.DefaultBatchSize, nil
	case f.BatchSize < 0:
		return 0, fmt.Errorf("File.BatchSizeOrDefault: batch_size %d: %w", f.BatchSize, ErrInvalidConfig)
	default:
		return f.BatchSize, nil
	}
}

// Request returns the augmentation request described by data_augmentation.
func (f *File) Request(exhaustOnce bool) (batch.Request, error) {
	mode, err := augment.ParseMode(f.DataAugmentation.Type)
	if err != nil {
		return batch.Request{}, fmt.Errorf("File.Request: %w: %w", ErrInvalidConfig, err)
	}

	return batch.Request{
		Mode:        mode,
		Selection:   f.DataAugmentation.Transformations,
		ExhaustOnce: exhaustOnce,
	}, nil
}

// SourceOptions returns the batch options implied by the file: batch size,
// thresholds and patch size.
func (f *File) SourceOptions() ([]batch.Option, error) {
	bs, err := f.BatchSizeOrDefault()
	if err != nil {
		return nil, err
	}
	th, err := f.ThresholdList()
	if err != nil {
		return nil, err
	}
	opts := []batch.Option{batch.WithBatchSize(bs), batch.WithThresholds(th)}
	if f.TrainingsetPatchsize > 0 {
		opts = append(opts, batch.WithPatchSize(f.TrainingsetPatchsize))
	}

	return opts, nil
}
