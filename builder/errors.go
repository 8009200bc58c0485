// SPDX-License-Identifier: MIT
// Package: facetopo/builder
//
// errors.go - sentinel errors for the builder package.
//
// Callers branch with errors.Is; constructors wrap with their method tag.

package builder

import "errors"

// ErrTooFewSides indicates a polygonal parameter below its minimum.
var ErrTooFewSides = errors.New("builder: too few sides")

// ErrNonPositiveSize indicates a size, radius or height <= 0.
var ErrNonPositiveSize = errors.New("builder: size must be positive")

// ErrUnknownSolid indicates an unsupported PlatonicName.
var ErrUnknownSolid = errors.New("builder: unknown solid")

// ErrConstructFailed indicates a nil constructor was passed to Build.
var ErrConstructFailed = errors.New("builder: construction failed")
