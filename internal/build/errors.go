package build

import "errors"

var (
	ErrInvalidOutput = errors.New("output type must be one of script, mpq, dir")
	ErrMapRequired   = errors.New("a map name is required for output type")
)
