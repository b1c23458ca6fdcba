package model

import "github.com/pkg/errors"

var (
	// ErrOutOfBounds is returned when a coordinate lies outside [0, numCols] x [0, numRows]
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	// ErrInvalidGridSize is returned for non-positive grid dimensions
	ErrInvalidGridSize = errors.New("invalid grid size")
)
