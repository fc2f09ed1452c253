package seprep

import "errors"

// Common errors.
var (
	ErrInvalid       = errors.New("separated representation has no geometry")
	ErrIncompatible  = errors.New("incompatible separated representations")
	ErrNotCubic      = errors.New("separated representation requires equal extents on every axis")
	ErrGrouping      = errors.New("invalid dimension grouping")
	ErrFactorization = errors.New("factorization did not converge")
)
