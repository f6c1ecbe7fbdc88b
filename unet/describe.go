package unet

import (
	"fmt"
)

// Layer naming.
const (
	inputName  = "input"
	outputName = "finalconv"

	downconvKernel = 5
	upconvKernel   = 2
	poolSize       = 2
)

// Describe returns the ordered layer specifications of cfg, using the
// starting batch-norm decay. It does not infer shapes; see Build.
func Describe(cfg Config) ([]LayerSpec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("unet.Describe: %w", err)
	}

	return describe(cfg, cfg.BatchNormDecayStartingDecay), nil
}

// describe assumes cfg is valid.
func describe(cfg Config, decay float64) []LayerSpec {
	d := describer{cfg: cfg, momentum: 1 - decay}
	d.add(LayerSpec{Name: inputName, Kind: KindInput, Level: -1})
	prev := inputName

	skips := make([]string, cfg.Depth)
	for i := 0; i < cfg.Depth; i++ {
		for j := 0; j < cfg.ConvolutionPerLayer[i]; j++ {
			prev = d.conv(fmt.Sprintf("conv-d%d-%d", i, j), prev, cfg.filters(i, j), cfg.SizeOfConvolutionsPerLayer[i][j], i)
		}
		skips[i] = prev

		if cfg.Downsampling == DownsampleConvolution {
			name := fmt.Sprintf("downconv-d%d", i)
			d.add(LayerSpec{
				Name: name, Kind: KindDownsample, Inputs: []string{prev},
				Filters: cfg.lastFilters(i), Kernel: downconvKernel, Stride: 2,
				Activation: ActivationReLU,
				BatchNorm:  cfg.BatchNormActivate, Momentum: d.bnMomentum(),
				Level: i,
			})
			prev = name
		} else {
			name := fmt.Sprintf("downmp-d%d", i)
			d.add(LayerSpec{
				Name: name, Kind: KindDownsample, Inputs: []string{prev},
				Kernel: poolSize, Stride: poolSize, MaxPool: true,
				Level: i,
			})
			prev = name
		}
	}

	for i := 0; i < cfg.Depth; i++ {
		level := cfg.Depth - 1 - i

		up := fmt.Sprintf("upsample-u%d", i)
		d.add(LayerSpec{Name: up, Kind: KindUpsample, Inputs: []string{prev}, Stride: poolSize, Level: level})

		upconv := d.conv(fmt.Sprintf("upconv-u%d", i), up, cfg.lastFilters(level), upconvKernel, level)

		concat := fmt.Sprintf("concat-u%d", i)
		d.add(LayerSpec{Name: concat, Kind: KindConcat, Inputs: []string{skips[level], upconv}, Level: level})
		prev = concat

		for j := 0; j < cfg.ConvolutionPerLayer[level]; j++ {
			prev = d.conv(fmt.Sprintf("conv-u%d-%d", i, j), prev, cfg.filters(level, j), cfg.SizeOfConvolutionsPerLayer[level][j], level)
		}
	}

	d.add(LayerSpec{
		Name: outputName, Kind: KindOutput, Inputs: []string{prev},
		Filters: cfg.NClasses, Kernel: 1, Stride: 1, Activation: ActivationSoftmax,
		Level: -1,
	})

	return d.specs
}

type describer struct {
	cfg      Config
	momentum float64
	specs    []LayerSpec
}

func (d *describer) add(s LayerSpec) {
	d.specs = append(d.specs, s)
}

func (d *describer) bnMomentum() float64 {
	if !d.cfg.BatchNormActivate {
		return 0
	}

	return d.momentum
}

// conv appends a stride-1 convolution block and returns its name.
func (d *describer) conv(name, input string, filters, kernel, level int) string {
	d.add(LayerSpec{
		Name: name, Kind: KindConv, Inputs: []string{input},
		Filters: filters, Kernel: kernel, Stride: 1,
		Activation:  ActivationReLU,
		BatchNorm:   d.cfg.BatchNormActivate,
		Momentum:    d.bnMomentum(),
		DropoutRate: 1 - d.cfg.Dropout,
		Level:       level,
	})

	return name
}
