package database

import "errors"

var (
	// ErrRunNotFound is returned when no run has the requested ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrNilRun is returned when SaveRun is called with a nil run.
	ErrNilRun = errors.New("run is nil")
)
