package model

import "errors"

var (
	ErrInvalidAttemptKey = errors.New("invalid attempt key")
	ErrInvalidLevel      = errors.New("invalid world/level")
	ErrInvalidCounts     = errors.New("moves and failed attempts must be non-negative")
	ErrInvalidTimeWindow = errors.New("timeClose must not be before timeOpen")
)
