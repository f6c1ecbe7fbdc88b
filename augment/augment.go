package augment

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/axonseg/mask"
)

var (
	// ErrNilPlane is returned when a Pair lacks its image or mask.
	ErrNilPlane = errors.New("augment: nil or empty plane")

	// ErrPairShape is returned when image and mask dimensions differ.
	ErrPairShape = errors.New("augment: image and mask dimensions differ")

	// ErrUnknownMode is returned by ParseMode for unsupported mode names.
	ErrUnknownMode = errors.New("augment: unknown augmentation mode")
)

// Pair is an image plane with its mask.
type Pair struct {
	Image *mat.Dense
	Mask  *mat.Dense
}

// Validate checks that both planes are present and share dimensions.
func (p Pair) Validate() error {
	if p.Image == nil || p.Mask == nil || p.Image.IsEmpty() || p.Mask.IsEmpty() {
		return ErrNilPlane
	}
	ir, ic := p.Image.Dims()
	mr, mc := p.Mask.Dims()
	if ir != mr || ic != mc {
		return fmt.Errorf("image %dx%d, mask %dx%d: %w", ir, ic, mr, mc, ErrPairShape)
	}

	return nil
}

// Transform is one selected augmentation, possibly bound to a threshold list.
type Transform struct {
	kind  Kind
	apply func(p Pair, rng *rand.Rand) (Pair, error)
}

// Kind reports which augmentation t performs.
func (t Transform) Kind() Kind { return t.kind }

// Apply runs t on p. The input planes are never modified.
func (t Transform) Apply(p Pair, rng *rand.Rand) (Pair, error) {
	if err := p.Validate(); err != nil {
		return Pair{}, fmt.Errorf("%s: %w", t.kind, err)
	}
	out, err := t.apply(p, rng)
	if err != nil {
		return Pair{}, fmt.Errorf("%s: %w", t.kind, err)
	}

	return out, nil
}

// factories builds each kind; threshold-dependent kinds receive their own copy.
var factories = map[Kind]func(th mask.Thresholds) Transform{
	Shift:          func(mask.Thresholds) Transform { return Transform{kind: Shift, apply: shift} },
	Rescale:        func(th mask.Thresholds) Transform { return Transform{kind: Rescale, apply: rescaleWith(th)} },
	RandomRotation: func(th mask.Thresholds) Transform { return Transform{kind: RandomRotation, apply: rotateWith(th)} },
	Elastic:        func(th mask.Thresholds) Transform { return Transform{kind: Elastic, apply: elasticWith(th)} },
	Flip:           func(mask.Thresholds) Transform { return Transform{kind: Flip, apply: flip} },
}

// Select returns the transforms enabled in selection, in canonical order.
// An empty selection yields the full default set. Keys that name no known
// transform are ignored, as are keys mapped to false.
// Complexity: O(K) over the selection keys.
func Select(selection map[string]bool, th mask.Thresholds) []Transform {
	th = th.Clone()
	kinds := Kinds()
	if len(selection) > 0 {
		kinds = make([]Kind, 0, len(kinds))
		for _, k := range Kinds() {
			for key, on := range selection {
				if on && k.matches(key) {
					kinds = append(kinds, k)
					break
				}
			}
		}
	}

	out := make([]Transform, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, factories[k](th))
	}

	return out
}

// ApplyAll composes ts in order.
func ApplyAll(p Pair, ts []Transform, rng *rand.Rand) (Pair, error) {
	var err error
	for _, t := range ts {
		if p, err = t.Apply(p, rng); err != nil {
			return Pair{}, fmt.Errorf("augment.ApplyAll: %w", err)
		}
	}

	return p, nil
}

// ApplyRandom applies exactly one transform chosen uniformly from ts.
// An empty list returns p unchanged.
func ApplyRandom(p Pair, ts []Transform, rng *rand.Rand) (Pair, error) {
	if len(ts) == 0 {
		return p, nil
	}
	out, err := ts[rng.Intn(len(ts))].Apply(p, rng)
	if err != nil {
		return Pair{}, fmt.Errorf("augment.ApplyRandom: %w", err)
	}

	return out, nil
}

// Mode tells the batch source how to augment each sample.
type Mode int

const (
	// ModeNone leaves samples untouched.
	ModeNone Mode = iota
	// ModeAll composes every selected transform.
	ModeAll
	// ModeRandom applies one selected transform at random.
	ModeRandom
)

// String returns the configuration name of m.
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeAll:
		return "all"
	case ModeRandom:
		return "random"
	default:
		return "unknown"
	}
}

// ParseMode maps "none", "all" or "random" (any case) to a Mode.
// The empty string means ModeNone.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ModeNone, nil
	case "all":
		return ModeAll, nil
	case "random":
		return ModeRandom, nil
	default:
		return ModeNone, fmt.Errorf("%q: %w", s, ErrUnknownMode)
	}
}

// Apply selects transforms from selection and applies them according to mode.
// ModeNone returns p as is.
func Apply(mode Mode, p Pair, selection map[string]bool, th mask.Thresholds, rng *rand.Rand) (Pair, error) {
	switch mode {
	case ModeNone:
		return p, nil
	case ModeAll:
		return ApplyAll(p, Select(selection, th), rng)
	case ModeRandom:
		return ApplyRandom(p, Select(selection, th), rng)
	default:
		return Pair{}, fmt.Errorf("augment.Apply: mode %d: %w", mode, ErrUnknownMode)
	}
}
