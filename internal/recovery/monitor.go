// internal/recovery/monitor.go

// Package recovery watches master link health and escalates from process
// restarts to master power cycles when communication keeps failing.
package recovery

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tamzrod/master-gateway/internal/master"
	"github.com/tamzrod/master-gateway/internal/power"
	"github.com/tamzrod/master-gateway/internal/settings"
	"github.com/tamzrod/master-gateway/internal/status"
)

const reasonCommErrors = "communication_errors"

// MonitorConfig holds the Monitor timings and thresholds.
type MonitorConfig struct {
	Thresholds Thresholds

	RestartGrace time.Duration // wait before exiting for a restart
	ResetGrace   time.Duration // wait before power cycling the master
	PowerHold    time.Duration // supply off time during a power cycle
	ResetSettle  time.Duration // wait before exiting after a power cycle
}

// DefaultMonitorConfig returns the production timings.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Thresholds:   DefaultThresholds(),
		RestartGrace: 15 * time.Second,
		ResetGrace:   time.Second,
		PowerHold:    5 * time.Second,
		ResetSettle:  5 * time.Second,
	}
}

// Monitor runs the communication check.
type Monitor struct {
	link      master.Link
	store     settings.Store
	snapshots *SnapshotStore
	power     power.Controller // nil falls back to a firmware reset command
	cfg       MonitorConfig
	log       *slog.Logger

	instance string
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error

	last status.Snapshot
}

// NewMonitor builds a Monitor. snapshots and pc may be nil.
func NewMonitor(link master.Link, store settings.Store, snapshots *SnapshotStore, pc power.Controller, cfg MonitorConfig, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		link:      link,
		store:     store,
		snapshots: snapshots,
		power:     pc,
		cfg:       cfg,
		log:       logger,
		instance:  uuid.New().String(),
		now:       time.Now,
		sleep:     sleepCtx,
	}
}

// Instance returns the process instance id recorded on escalations.
func (m *Monitor) Instance() string { return m.instance }

// Last returns the most recent health snapshot.
func (m *Monitor) Last() status.Snapshot { return m.last }

// Check evaluates link health once. It returns a *Termination when the
// process must exit.
func (m *Monitor) Check(ctx context.Context) error {
	th := m.cfg.Thresholds

	state, err := LoadState(m.store, th)
	if err != nil {
		return err
	}

	stats := m.link.Stats()
	now := m.now()
	d := Analyze(stats, state, now, th)

	m.last = status.Snapshot{
		At:       now,
		Health:   d.Health,
		Calls:    d.Calls,
		Timeouts: d.Timeouts,
		Ratio:    d.Ratio,
	}
	if d.Action != ActionNone {
		m.last.Action = d.Action.String()
	}
	m.log.LogAttrs(ctx, slog.LevelDebug, "link health", status.Encode(m.last)...)

	if d.ClearState {
		if !state.Empty() {
			m.log.Info("communication healthy again, clearing recovery state")
		}
		return ClearState(m.store)
	}

	if d.Tolerated {
		m.log.Warn("communication timeouts below threshold",
			slog.Int("timeouts", d.Timeouts),
			slog.Int("calls", d.Calls),
			slog.Float64("ratio", d.Ratio))
		return nil
	}

	switch d.Action {
	case ActionRestartProcess:
		m.capture(stats, d.Action, now)
		state.ServiceRestart = &ServiceRestart{
			Reason:   reasonCommErrors,
			Time:     now,
			Backoff:  d.Backoff,
			Instance: m.instance,
		}
		if err := SaveState(m.store, state); err != nil {
			return err
		}
		m.log.Error("major communication issues, restarting service",
			slog.Float64("ratio", d.Ratio),
			slog.Duration("backoff", d.Backoff))
		return &Termination{Action: d.Action, Reason: reasonCommErrors, Grace: m.cfg.RestartGrace}

	case ActionResetMaster:
		m.capture(stats, d.Action, now)
		state.MasterReset = &MasterReset{
			Reason:   reasonCommErrors,
			Time:     now,
			Instance: m.instance,
		}
		if err := SaveState(m.store, state); err != nil {
			return err
		}
		m.log.Error("major communication issues, resetting master",
			slog.Float64("ratio", d.Ratio),
			slog.Duration("backoff", d.Backoff))

		if err := m.sleep(ctx, m.cfg.ResetGrace); err != nil {
			return err
		}
		m.resetMaster(ctx)
		return &Termination{Action: d.Action, Reason: reasonCommErrors, Grace: m.cfg.ResetSettle}
	}

	return nil
}

func (m *Monitor) resetMaster(ctx context.Context) {
	if m.power == nil {
		if err := master.SoftReset(ctx, m.link); err != nil {
			m.log.Error("master soft reset failed", slog.Any("err", err))
		}
		return
	}
	if err := power.Cycle(ctx, m.power, m.cfg.PowerHold); err != nil {
		m.log.Error("master power cycle failed", slog.Any("err", err))
	}
}

// capture writes a debug snapshot. Failures are logged, never fatal.
func (m *Monitor) capture(stats master.CommunicationStats, action Action, now time.Time) {
	if m.snapshots == nil {
		return
	}
	path, err := m.snapshots.Save(NewDebugSnapshot(m.link, stats, action), now)
	if err != nil {
		m.log.Warn("debug snapshot", slog.Any("err", err))
		return
	}
	m.log.Info("debug snapshot written", slog.String("path", path))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
