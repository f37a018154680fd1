// Package infra serves operational endpoints on the ops listener.
package infra

import "time"

// Handlers holds the dependencies for infrastructure HTTP handlers.
type Handlers struct {
	Mode      string
	Provider  string
	StartTime time.Time
}

// New creates a new instance of infrastructure handlers.
func New(mode, provider string, startTime time.Time) *Handlers {
	return &Handlers{
		Mode:      mode,
		Provider:  provider,
		StartTime: startTime,
	}
}
