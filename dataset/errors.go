package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrFileAccess marks a missing, unreadable or undecodable sample file.
	ErrFileAccess = errors.New("dataset: file access failed")

	// ErrSizeMismatch marks a sample whose planes do not have the expected size.
	ErrSizeMismatch = errors.New("dataset: sample size mismatch")

	// ErrIndexOutOfRange marks a sample index outside [0, Size()).
	ErrIndexOutOfRange = errors.New("dataset: sample index out of range")
)

// FileAccessError records which file could not be read.
type FileAccessError struct {
	Path string
	Err  error
}

// Error implements error.
func (e *FileAccessError) Error() string {
	return fmt.Sprintf("dataset: cannot read %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying OS or decode error.
func (e *FileAccessError) Unwrap() error { return e.Err }

// Is matches ErrFileAccess.
func (e *FileAccessError) Is(target error) bool { return target == ErrFileAccess }
