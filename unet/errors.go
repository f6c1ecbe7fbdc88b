package unet

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks an invalid network configuration.
	ErrConfiguration = errors.New("unet: invalid configuration")

	// ErrShapeMismatch marks incompatible tensor shapes between layers.
	ErrShapeMismatch = errors.New("unet: shape mismatch")

	// ErrLayerNotFound is returned by Model.Layer for unknown names.
	ErrLayerNotFound = errors.New("unet: layer not found")
)

// ShapeMismatchError reports a skip concatenation whose inputs differ in
// spatial size.
type ShapeMismatchError struct {
	Layer     string
	Skip      []int
	Upsampled []int
}

// Error implements error.
func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("unet: layer %s concatenates skip %v with upsampled %v", e.Layer, e.Skip, e.Upsampled)
}

// Is matches ErrShapeMismatch.
func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

// configErrorf wraps ErrConfiguration with field context.
func configErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConfiguration)
}
