package core

import (
	"errors"
	"fmt"
)

const (
	// MaxSpheres is bounded by the size of the sphere uniform block.
	MaxSpheres = 339
	// MaxIterations bounds the secondary-ray depth the trace pass will follow.
	MaxIterations = 16
)

var (
	ErrTooManySpheres    = errors.New("too many spheres")
	ErrTooManyIterations = errors.New("too many iterations")
)

// ValidateCaps reports whether the requested scene fits the compiled limits.
// It must run before any window or GPU resource is created.
func ValidateCaps(spheres, iterations int) error {
	if spheres < 0 || spheres > MaxSpheres {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManySpheres, spheres, MaxSpheres)
	}
	if iterations < 0 || iterations > MaxIterations {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyIterations, iterations, MaxIterations)
	}
	return nil
}
