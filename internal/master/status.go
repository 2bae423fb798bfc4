// internal/master/status.go
package master

import (
	"context"
	"fmt"
)

// Status is a read-only snapshot of the master's clock and versions.
type Status struct {
	Hours   int
	Minutes int
	Seconds int
	Weekday int // 1 = Monday
	Day     int
	Month   int
	Year    int
	Mode    int
	F1      int
	F2      int
	F3      int
	H       int // hardware version
}

// Version returns the firmware version as "f1.f2.f3".
func (s Status) Version() string {
	return fmt.Sprintf("%d.%d.%d", s.F1, s.F2, s.F3)
}

// TimeString returns "HH:MM".
func (s Status) TimeString() string {
	return fmt.Sprintf("%02d:%02d", s.Hours, s.Minutes)
}

// DateString returns "DD/MM/YYYY" as reported by the master.
func (s Status) DateString() string {
	return fmt.Sprintf("%02d/%02d/%d", s.Day, s.Month, s.Year)
}

// ReadStatus queries and parses the master status.
func ReadStatus(ctx context.Context, l Executor) (Status, error) {
	out, err := l.Do(ctx, CmdStatus, Fields{})
	if err != nil {
		return Status{}, err
	}

	var s Status
	targets := []struct {
		key string
		dst *int
	}{
		{"hours", &s.Hours},
		{"minutes", &s.Minutes},
		{"seconds", &s.Seconds},
		{"weekday", &s.Weekday},
		{"day", &s.Day},
		{"month", &s.Month},
		{"year", &s.Year},
		{"mode", &s.Mode},
		{"f1", &s.F1},
		{"f2", &s.F2},
		{"f3", &s.F3},
		{"h", &s.H},
	}
	for _, t := range targets {
		v, err := out.Int(t.key)
		if err != nil {
			return Status{}, fmt.Errorf("master: status: %w", err)
		}
		*t.dst = v
	}
	return s, nil
}
