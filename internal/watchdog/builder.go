// internal/watchdog/builder.go
package watchdog

import (
	"context"
	"log/slog"
	"time"

	cfg "github.com/tamzrod/master-gateway/internal/config"
	"github.com/tamzrod/master-gateway/internal/reconcile"
	"github.com/tamzrod/master-gateway/internal/recovery"
	"github.com/tamzrod/master-gateway/internal/timesync"
)

// Build wires the communication, time and settings checks, in that order.
func Build(c cfg.WatchdogConfig, m *recovery.Monitor, v *timesync.Validator, r *reconcile.Reconciler, logger *slog.Logger) (*Watchdog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	checks := []Check{
		{
			Name:     "communication",
			Interval: time.Duration(c.CommunicationCheckS) * time.Second,
			Run:      m.Check,
		},
		{
			Name:     "time",
			Interval: time.Duration(c.TimeCheckS) * time.Second,
			Run: func(ctx context.Context) error {
				_, err := v.Check(ctx)
				return err
			},
		},
		{
			Name:     "settings",
			Interval: time.Duration(c.SettingsCheckS) * time.Second,
			Run: func(ctx context.Context) error {
				applied, err := r.Reconcile(ctx)
				if len(applied) > 0 {
					logger.Info("master settings corrected", slog.Any("applied", applied))
				}
				return err
			},
		},
	}

	return New(Config{
		PollInterval:    time.Duration(c.PollIntervalMs) * time.Millisecond,
		TimeoutWait:     time.Duration(c.TimeoutWaitS) * time.Second,
		MaintenanceWait: time.Duration(c.MaintenanceWaitS) * time.Second,
		ErrorWait:       time.Duration(c.ErrorWaitS) * time.Second,
	}, checks, logger)
}
