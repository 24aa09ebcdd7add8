// Package sentinel holds infrastructure error facts. Backends return them
// (optionally wrapped) and services translate them into domain errors once.
package sentinel

import "errors"

var (
	// ErrUnavailable means a dependency is up but refusing work.
	ErrUnavailable = errors.New("unavailable")
	// ErrClosed means the component was shut down.
	ErrClosed = errors.New("closed")
)
