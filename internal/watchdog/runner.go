// internal/watchdog/runner.go
package watchdog

import (
	"context"
	"time"
)

// Run loops Tick and sleep until ctx is cancelled (returns nil) or a check
// requests termination (returns the *recovery.Termination).
func (w *Watchdog) Run(ctx context.Context) error {
	for {
		wait, err := w.Tick(ctx)
		if err != nil {
			return err
		}
		if err := w.sleep(ctx, wait); err != nil {
			return nil
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
