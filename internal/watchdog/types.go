// internal/watchdog/types.go
package watchdog

import (
	"context"
	"time"
)

// Check is one periodic master check.
type Check struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Config holds the loop timings.
type Config struct {
	PollInterval    time.Duration // sleep between ticks
	TimeoutWait     time.Duration // sleep after a link timeout
	MaintenanceWait time.Duration // sleep while the master is in maintenance mode
	ErrorWait       time.Duration // sleep after any other error
}

// DefaultConfig returns the production timings.
func DefaultConfig() Config {
	return Config{
		PollInterval:    5 * time.Second,
		TimeoutWait:     60 * time.Second,
		MaintenanceWait: 10 * time.Second,
		ErrorWait:       60 * time.Second,
	}
}
