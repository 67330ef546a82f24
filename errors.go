package bough

import "errors"

// Parameter errors
var (
	// ErrDepthRange indicates a depth outside [1, PaletteSize].
	ErrDepthRange = errors.New("depth out of range")

	// ErrBranchCountRange indicates a branch count outside the allowed range.
	ErrBranchCountRange = errors.New("branch count out of range")

	// ErrNonPositiveSize indicates a trunk length or radius that is not > 0.
	ErrNonPositiveSize = errors.New("trunk length and radius must be positive")
)

// Script errors
var (
	// ErrEmptyScript indicates a test script with no steps.
	ErrEmptyScript = errors.New("no steps")
)
