package augment

import (
	"strings"
)

// Kind names one augmentation family.
type Kind int

const (
	// Shift translates by up to 10% of each dimension.
	Shift Kind = iota
	// Rescale zooms about the centre.
	Rescale
	// RandomRotation rotates about the centre.
	RandomRotation
	// Elastic applies a smoothed random displacement field.
	Elastic
	// Flip mirrors horizontally, vertically, both or not at all.
	Flip
)

var kindNames = [...]string{
	Shift:          "shifting",
	Rescale:        "rescaling",
	RandomRotation: "random_rotation",
	Elastic:        "elastic",
	Flip:           "flipping",
}

// Kinds returns every kind in canonical order.
func Kinds() []Kind {
	return []Kind{Shift, Rescale, RandomRotation, Elastic, Flip}
}

// String returns the canonical selector name of k.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}

	return kindNames[k]
}

// matches reports whether a selector key designates k. The comparison is
// case-insensitive and accepts a "<prefix>_" or "<prefix>-" namespace.
func (k Kind) matches(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	name := k.String()

	return key == name ||
		strings.HasSuffix(key, "_"+name) ||
		strings.HasSuffix(key, "-"+name)
}
