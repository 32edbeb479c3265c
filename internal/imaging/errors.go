package imaging

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below.
var (
	ErrImageLoad   = errors.New("image load failed")
	ErrPersistence = errors.New("image write failed")
)

var errEmptyImage = errors.New("image has no pixels")

// ImageLoadError reports an input image that is missing, undecodable or empty.
type ImageLoadError struct {
	Path string
	Err  error
}

func (e *ImageLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to load image: %v", e.Err)
	}
	return fmt.Sprintf("failed to load image %s: %v", e.Path, e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }

// Is reports whether target is ErrImageLoad.
func (e *ImageLoadError) Is(target error) bool { return target == ErrImageLoad }

// PersistenceError reports an output image or directory that could not be written.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save image to %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is reports whether target is ErrPersistence.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
