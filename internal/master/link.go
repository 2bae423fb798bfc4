// internal/master/link.go
package master

import (
	"context"
	"errors"
	"time"
)

// Link executes commands against the master.
// Mutual exclusion on the physical link is the Link's job, not the caller's.
type Link interface {
	Do(ctx context.Context, cmd Command, fields Fields) (Fields, error)
	Stats() CommunicationStats
	DebugBuffer() []DebugEntry
}

// Executor is the bare do_command primitive (no statistics).
// Recorder turns an Executor into a Link.
type Executor interface {
	Do(ctx context.Context, cmd Command, fields Fields) (Fields, error)
}

var (
	// ErrLinkTimeout means the master did not answer within the link timeout.
	ErrLinkTimeout = errors.New("master: communication timed out")

	// ErrMaintenanceMode means another session currently owns the master.
	// It is expected and never counts as a communication failure.
	ErrMaintenanceMode = errors.New("master: in maintenance mode")
)

// CommunicationStats is a snapshot of call outcomes, both lists ascending.
type CommunicationStats struct {
	Succeeded []time.Time
	TimedOut  []time.Time
}

// DebugEntry is one line of recent raw traffic.
type DebugEntry struct {
	At        time.Time `json:"at"`
	Direction string    `json:"direction"` // "write" | "read"
	Data      string    `json:"data"`
}
