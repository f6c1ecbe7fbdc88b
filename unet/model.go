package unet

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/katalvlaran/axonseg/graph"
)

// Layer is a materialized layer with its inferred output shape [H, W, C].
type Layer struct {
	Spec   LayerSpec
	Shape  []int
	Params int
}

// Skip pairs an encoder output with the decoder concatenation consuming it.
type Skip struct {
	Level   int
	Encoder string
	Concat  string
}

// Model is a built, shape-checked topology.
type Model struct {
	cfg    Config
	decay  float64
	g      *graph.Graph[*Layer]
	order  []string
	skips  []Skip
	params int
}

// Build validates cfg, describes it and materializes the layer graph.
// Stage 1 (Validate): Config.Validate.
// Stage 2 (Prepare): Describe, insert nodes and ordered edges.
// Stage 3 (Execute): infer shapes in topological order, checking concatenations.
// Returns ErrConfiguration or *ShapeMismatchError.
// Complexity: O(L) in the number of layers.
func Build(cfg Config, opts ...Option) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("unet.Build: %w", err)
	}
	bc := newBuildConfig(opts...)
	decay := cfg.BatchNormDecayStartingDecay
	if bc.hasDecay {
		decay = bc.decay
	}

	m := &Model{cfg: cfg, decay: decay, g: graph.New[*Layer]()}
	specs := describe(cfg, decay)
	for i := range specs {
		if err := m.g.AddNode(specs[i].Name, &Layer{Spec: specs[i]}); err != nil {
			return nil, fmt.Errorf("unet.Build: %w", err)
		}
	}
	for _, s := range specs {
		for _, in := range s.Inputs {
			if err := m.g.AddEdge(in, s.Name); err != nil {
				return nil, fmt.Errorf("unet.Build: %w", err)
			}
		}
		if s.Kind == KindConcat {
			m.skips = append(m.skips, Skip{Level: s.Level, Encoder: s.Inputs[0], Concat: s.Name})
		}
	}

	order, err := m.g.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("unet.Build: %w", err)
	}
	m.order = order

	for _, name := range order {
		l, _ := m.g.Node(name)
		if err = m.infer(l); err != nil {
			return nil, fmt.Errorf("unet.Build: %w", err)
		}
		m.params += l.Params
		bc.logger.Debug("layer",
			zap.String("name", name),
			zap.Stringer("kind", l.Spec.Kind),
			zap.Ints("shape", l.Shape),
			zap.Int("params", l.Params))
	}

	return m, nil
}

// infer sets l.Shape and l.Params from its inputs' shapes.
func (m *Model) infer(l *Layer) error {
	s := l.Spec
	ins := make([][]int, len(s.Inputs))
	for i, name := range s.Inputs {
		in, err := m.g.Node(name)
		if err != nil {
			return err
		}
		ins[i] = in.Shape
	}

	switch s.Kind {
	case KindInput:
		l.Shape = []int{m.cfg.PatchSize, m.cfg.PatchSize, 1}
	case KindConv, KindOutput:
		in := ins[0]
		l.Shape = []int{in[0], in[1], s.Filters}
		l.Params = convParams(s, in[2])
	case KindDownsample:
		in := ins[0]
		if s.MaxPool {
			l.Shape = []int{in[0] / s.Stride, in[1] / s.Stride, in[2]}
		} else {
			l.Shape = []int{ceilDiv(in[0], s.Stride), ceilDiv(in[1], s.Stride), s.Filters}
			l.Params = convParams(s, in[2])
		}
		if l.Shape[0] == 0 || l.Shape[1] == 0 {
			return fmt.Errorf("layer %s: input %v collapses to %v: %w", s.Name, in, l.Shape, ErrShapeMismatch)
		}
	case KindUpsample:
		in := ins[0]
		l.Shape = []int{in[0] * s.Stride, in[1] * s.Stride, in[2]}
	case KindConcat:
		skip, up := ins[0], ins[1]
		if skip[0] != up[0] || skip[1] != up[1] {
			return &ShapeMismatchError{Layer: s.Name, Skip: cloneShape(skip), Upsampled: cloneShape(up)}
		}
		l.Shape = []int{skip[0], skip[1], skip[2] + up[2]}
	default:
		return fmt.Errorf("layer %s: kind %v: %w", s.Name, s.Kind, ErrConfiguration)
	}

	return nil
}

// convParams counts kernel, bias and batch-norm scale/offset parameters.
func convParams(s LayerSpec, inChannels int) int {
	n := s.Kernel*s.Kernel*inChannels*s.Filters + s.Filters
	if s.BatchNorm {
		n += 2 * s.Filters
	}

	return n
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func cloneShape(s []int) []int {
	out := make([]int, len(s))
	copy(out, s)

	return out
}

// Config returns the configuration the model was built from.
func (m *Model) Config() Config { return m.cfg }

// BatchNormDecay returns the decay the model was built with.
func (m *Model) BatchNormDecay() float64 { return m.decay }

// Layers returns copies of all layers in topological order.
func (m *Model) Layers() []Layer {
	out := make([]Layer, 0, len(m.order))
	for _, name := range m.order {
		l, _ := m.g.Node(name)
		out = append(out, copyLayer(l))
	}

	return out
}

// Layer returns a copy of the named layer.
func (m *Model) Layer(name string) (Layer, error) {
	l, err := m.g.Node(name)
	if err != nil {
		return Layer{}, fmt.Errorf("Model.Layer %q: %w", name, ErrLayerNotFound)
	}

	return copyLayer(l), nil
}

func copyLayer(l *Layer) Layer {
	c := *l
	c.Shape = cloneShape(l.Shape)
	c.Spec.Inputs = append([]string(nil), l.Spec.Inputs...)

	return c
}

// InputShape returns [PatchSize, PatchSize, 1].
func (m *Model) InputShape() []int {
	l, _ := m.g.Node(inputName)

	return cloneShape(l.Shape)
}

// OutputShape returns the shape of the softmax output.
func (m *Model) OutputShape() []int {
	l, _ := m.g.Node(outputName)

	return cloneShape(l.Shape)
}

// Skips returns the skip connections from the deepest level up.
func (m *Model) Skips() []Skip {
	return append([]Skip(nil), m.skips...)
}

// ParamCount returns the number of trainable parameters.
func (m *Model) ParamCount() int { return m.params }

// Summary renders one line per layer: name, kind, output shape, parameters
// and inputs.
func (m *Model) Summary() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LAYER\tKIND\tOUTPUT\tPARAMS\tINPUTS")
	for _, l := range m.Layers() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			l.Spec.Name, l.Spec.Kind, shapeString(l.Shape), l.Params, strings.Join(l.Spec.Inputs, ","))
	}
	fmt.Fprintf(w, "total\t\t\t%d\t\n", m.params)
	_ = w.Flush()

	return sb.String()
}

func shapeString(s []int) string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = fmt.Sprint(d)
	}

	return "[" + strings.Join(parts, " ") + "]"
}
