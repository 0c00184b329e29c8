package util

import "errors"

var (
	ErrPermissionDenied    = errors.New("permission denied")
	ErrGameNotFound        = errors.New("game not found")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrBadSignal           = errors.New("bad signal")
	ErrAttemptLimitReached = errors.New("attempt limit reached")
	ErrGameNotYetOpen      = errors.New("game not yet available")
	ErrGameClosed          = errors.New("game closed")
	ErrLockTimeout         = errors.New("timed out waiting for attempt lock")
)
