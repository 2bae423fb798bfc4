// internal/power/power.go

// Package power drives the master's power control line.
package power

import (
	"context"
	"time"
)

// Controller switches the master's supply.
type Controller interface {
	SetPower(ctx context.Context, on bool) error
}

// Cycle turns the master off, holds for hold, then turns it back on.
// The supply is switched back on even when ctx is cancelled during the hold.
func Cycle(ctx context.Context, c Controller, hold time.Duration) error {
	if err := c.SetPower(ctx, false); err != nil {
		return err
	}

	t := time.NewTimer(hold)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}

	return c.SetPower(context.WithoutCancel(ctx), true)
}
