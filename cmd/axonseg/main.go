// Command axonseg inspects U-Net topologies and batch pipelines for axon and
// myelin segmentation.
//
//	axonseg topology --config network.yaml
//	axonseg batches --config network.yaml --data ./trainingset --count 4 --weights
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexflint/go-arg"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/axonseg/batch"
	"github.com/katalvlaran/axonseg/config"
	"github.com/katalvlaran/axonseg/unet"
)

type topologyCmd struct {
	Config string `arg:"--config,required" help:"network configuration file (YAML or JSON)"`
	Step   *int   `arg:"--step" help:"training step used to derive the batch-norm decay"`
}

type batchesCmd struct {
	Config  string `arg:"--config,required" help:"configuration file (YAML or JSON)"`
	Data    string `arg:"--data,required" help:"dataset root holding Train/ and Validation/"`
	Split   string `arg:"--split" default:"train" help:"train or validation"`
	Count   int    `arg:"--count" default:"1" help:"number of batches to pull"`
	Weights bool   `arg:"--weights" help:"also synthesize weight maps"`
	Workers int    `arg:"--workers" default:"1" help:"concurrent file decoders"`
	Cache   int    `arg:"--cache" help:"decoded samples kept in memory"`
	Seed    *int64 `arg:"--seed" help:"random seed for shuffling and augmentation"`
	Once    bool   `arg:"--once" help:"stop each batch at the epoch boundary"`
}

type args struct {
	Topology *topologyCmd `arg:"subcommand:topology" help:"print the layer summary of a network"`
	Batches  *batchesCmd  `arg:"subcommand:batches" help:"pull batches and report their shapes"`
	Verbose  bool         `arg:"-v,--verbose" help:"development logging at debug level"`
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run parses argv, executes the chosen subcommand and returns the exit code.
func run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	var a args
	p, err := arg.NewParser(arg.Config{Program: "axonseg"}, &a)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	switch err = p.Parse(argv); {
	case errors.Is(err, arg.ErrHelp):
		p.WriteHelp(stdout)
		return 0
	case err != nil:
		fmt.Fprintln(stderr, err)
		p.WriteUsage(stderr)
		return 2
	case p.Subcommand() == nil:
		p.WriteUsage(stderr)
		return 2
	}

	// topology prints its summary on stdout, so its records all go to stderr.
	logOut := stdout
	if a.Topology != nil {
		logOut = stderr
	}
	log := newLogger(logOut, stderr, a.Verbose)
	defer func() { _ = log.Sync() }()

	switch {
	case a.Topology != nil:
		err = topology(a.Topology, stdout, log)
	case a.Batches != nil:
		err = batches(ctx, a.Batches, log)
	}
	if err != nil {
		log.Error("command failed", zap.Error(err))
		return 1
	}

	return 0
}

func topology(c *topologyCmd, out io.Writer, log *zap.Logger) error {
	f, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	cfg, err := f.Network()
	if err != nil {
		return err
	}

	opts := []unet.Option{unet.WithLogger(log)}
	if c.Step != nil {
		opts = append(opts, unet.WithBatchNormDecay(cfg.BatchNormDecayAt(*c.Step)))
	}
	m, err := unet.Build(cfg, opts...)
	if err != nil {
		return err
	}

	fmt.Fprint(out, m.Summary())
	log.Info("topology built",
		zap.Ints("input", m.InputShape()),
		zap.Ints("output", m.OutputShape()),
		zap.Int("params", m.ParamCount()),
		zap.Float64("bn_decay", m.BatchNormDecay()))

	return nil
}

func batches(ctx context.Context, c *batchesCmd, log *zap.Logger) error {
	if c.Count < 1 || c.Workers < 1 || c.Cache < 0 {
		return fmt.Errorf("count %d, workers %d, cache %d: %w", c.Count, c.Workers, c.Cache, config.ErrInvalidConfig)
	}
	split, err := batch.ParseSplit(c.Split)
	if err != nil {
		return err
	}
	f, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	opts, err := f.SourceOptions()
	if err != nil {
		return err
	}
	req, err := f.Request(c.Once)
	if err != nil {
		return err
	}

	opts = append(opts, batch.WithWorkers(c.Workers), batch.WithCacheSize(c.Cache), batch.WithLogger(log))
	if c.Seed != nil {
		opts = append(opts, batch.WithSeed(*c.Seed))
	}
	src, err := batch.NewSource(c.Data, split, opts...)
	if err != nil {
		return err
	}
	log.Info("source opened",
		zap.Stringer("split", src.Split()),
		zap.Int("size", src.Size()),
		zap.Int("epoch_size", src.EpochSize()),
		zap.Int("batch_size", src.BatchSize()))

	for i := 0; i < c.Count; i++ {
		var b *batch.Batch
		if c.Weights {
			b, err = src.NextWithWeights(ctx, req)
		} else {
			b, err = src.Next(ctx, req)
		}
		if err != nil {
			return err
		}

		fields := []zap.Field{
			zap.Int("batch", i),
			zap.Ints("indices", b.Indices),
			zap.Ints("images", b.Images.Shape()),
			zap.Ints("labels", b.Labels.Shape()),
			zap.Float64("image_min", floats.Min(b.Images.Data())),
			zap.Float64("image_max", floats.Max(b.Images.Data())),
			zap.Int("seen", src.Seen()),
		}
		if b.Weights != nil {
			fields = append(fields,
				zap.Float64("weight_min", floats.Min(b.Weights.Data())),
				zap.Float64("weight_max", floats.Max(b.Weights.Data())))
		}
		log.Info("batch", fields...)
	}

	return nil
}
