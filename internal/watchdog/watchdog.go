// internal/watchdog/watchdog.go

// Package watchdog runs the periodic master checks on their own cadences.
package watchdog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tamzrod/master-gateway/internal/master"
	"github.com/tamzrod/master-gateway/internal/recovery"
)

type scheduled struct {
	Check
	last time.Time // completion time of the last successful run
}

// Watchdog runs checks in order, each when its interval has elapsed.
type Watchdog struct {
	cfg    Config
	checks []*scheduled
	log    *slog.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a watchdog. Checks run in the given order.
func New(cfg Config, checks []Check, logger *slog.Logger) (*Watchdog, error) {
	if cfg.PollInterval <= 0 {
		return nil, errors.New("watchdog: poll interval must be > 0")
	}
	if len(checks) == 0 {
		return nil, errors.New("watchdog: at least one check required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	w := &Watchdog{cfg: cfg, log: logger, now: time.Now, sleep: sleepCtx}
	for _, c := range checks {
		if c.Name == "" || c.Run == nil {
			return nil, errors.New("watchdog: check needs a name and a run function")
		}
		if c.Interval <= 0 {
			return nil, errors.New("watchdog: check " + c.Name + ": interval must be > 0")
		}
		w.checks = append(w.checks, &scheduled{Check: c})
	}
	return w, nil
}

// Tick runs every due check once and returns how long to wait before the
// next tick. A failing check ends the tick; its due time is not advanced.
// The returned error is non-nil only for a *recovery.Termination.
func (w *Watchdog) Tick(ctx context.Context) (time.Duration, error) {
	for _, c := range w.checks {
		if !c.last.IsZero() && w.now().Sub(c.last) < c.Interval {
			continue
		}

		err := c.Run(ctx)
		if err == nil {
			c.last = w.now()
			continue
		}

		var term *recovery.Termination
		switch {
		case errors.As(err, &term):
			return 0, err
		case errors.Is(err, master.ErrLinkTimeout):
			w.log.Error("communication timeout while checking the master", slog.String("check", c.Name))
			return w.cfg.TimeoutWait, nil
		case errors.Is(err, master.ErrMaintenanceMode):
			w.log.Info("master in maintenance mode", slog.String("check", c.Name))
			return w.cfg.MaintenanceWait, nil
		default:
			w.log.Error("check failed", slog.String("check", c.Name), slog.Any("err", err))
			return w.cfg.ErrorWait, nil
		}
	}
	return w.cfg.PollInterval, nil
}
