// internal/timesync/timesync.go

// Package timesync keeps the master's clock aligned with the host clock.
package timesync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tamzrod/master-gateway/internal/master"
)

const (
	// DefaultTolerance is the largest accepted time-of-day difference.
	DefaultTolerance = 180 * time.Second

	// skipWindow is the period after midnight during which resync is
	// skipped; the master's date fields are ambiguous around rollover.
	skipWindow = 15 * time.Minute
)

// Validator compares the master clock to the host clock.
type Validator struct {
	link      master.Executor
	tolerance time.Duration
	log       *slog.Logger
	now       func() time.Time
}

// New returns a Validator. A zero tolerance uses DefaultTolerance.
func New(link master.Executor, tolerance time.Duration, logger *slog.Logger) *Validator {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{link: link, tolerance: tolerance, log: logger, now: time.Now}
}

// Status reads the master status.
func (v *Validator) Status(ctx context.Context) (master.Status, error) {
	return master.ReadStatus(ctx, v.link)
}

// Check resyncs the master clock when it drifted beyond the tolerance or
// reports the wrong weekday. It reports whether a resync was issued.
func (v *Validator) Check(ctx context.Context) (bool, error) {
	st, err := v.Status(ctx)
	if err != nil {
		return false, fmt.Errorf("timesync: read status: %w", err)
	}

	now := v.now()
	if !NeedsSync(st, now, v.tolerance) {
		return false, nil
	}

	v.log.Info("master clock out of sync",
		slog.String("master", fmt.Sprintf("%02d:%02d:%02d", st.Hours, st.Minutes, st.Seconds)),
		slog.Int("master_weekday", st.Weekday),
		slog.String("host", now.Format("15:04:05")),
		slog.Int("host_weekday", ISOWeekday(now)))

	if InSkipWindow(now) {
		v.log.Info("skip setting time between 00:00 and 00:15")
		return false, nil
	}

	if err := v.Sync(ctx, now); err != nil {
		return false, err
	}
	return true, nil
}

// Sync writes now to the master clock.
func (v *Validator) Sync(ctx context.Context, now time.Time) error {
	v.log.Info("setting the time on the master")
	_, err := v.link.Do(ctx, master.CmdSetTime, master.Fields{
		"sec":     now.Second(),
		"min":     now.Minute(),
		"hours":   now.Hour(),
		"weekday": ISOWeekday(now),
		"day":     now.Day(),
		"month":   int(now.Month()),
		"year":    now.Year() % 100,
	})
	if err != nil {
		return fmt.Errorf("timesync: set_time: %w", err)
	}
	return nil
}

// NeedsSync reports whether the master clock differs from now by more than
// tolerance, or its weekday does not match.
func NeedsSync(st master.Status, now time.Time, tolerance time.Duration) bool {
	masterTOD := time.Duration(st.Hours)*time.Hour +
		time.Duration(st.Minutes)*time.Minute +
		time.Duration(st.Seconds)*time.Second
	hostTOD := time.Duration(now.Hour())*time.Hour +
		time.Duration(now.Minute())*time.Minute +
		time.Duration(now.Second())*time.Second

	diff := masterTOD - hostTOD
	if diff < 0 {
		diff = -diff
	}
	return diff > tolerance || st.Weekday != ISOWeekday(now)
}

// InSkipWindow reports whether t falls in 00:00 up to 00:15.
func InSkipWindow(t time.Time) bool {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return t.Sub(midnight) < skipWindow
}

// ISOWeekday returns 1 for Monday through 7 for Sunday.
func ISOWeekday(t time.Time) int {
	return (int(t.Weekday())+6)%7 + 1
}
