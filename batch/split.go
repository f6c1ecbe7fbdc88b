package batch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSplit is returned by ParseSplit for unsupported names.
var ErrUnknownSplit = errors.New("batch: unknown split")

// Split selects the training or validation half of a dataset.
type Split int

const (
	// Train reads <root>/Train with shuffled, padded pools.
	Train Split = iota
	// Validation reads <root>/Validation with ordered pools.
	Validation
)

// Dir returns the split's directory name.
func (s Split) Dir() string {
	if s == Validation {
		return "Validation"
	}

	return "Train"
}

// String returns "train" or "validation".
func (s Split) String() string {
	return strings.ToLower(s.Dir())
}

// ParseSplit accepts "train" or "validation" in any case.
func ParseSplit(s string) (Split, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "train":
		return Train, nil
	case "validation":
		return Validation, nil
	default:
		return Train, fmt.Errorf("%q: %w", s, ErrUnknownSplit)
	}
}
