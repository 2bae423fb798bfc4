// internal/recovery/analyzer.go
package recovery

import (
	"sort"
	"time"

	"github.com/tamzrod/master-gateway/internal/master"
	"github.com/tamzrod/master-gateway/internal/status"
)

// Action is the recovery action chosen for a link evaluation.
type Action uint8

const (
	ActionNone Action = iota
	ActionRestartProcess
	ActionResetMaster
)

// String returns the name used in logs, snapshots and persisted state.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionRestartProcess:
		return "service_restart"
	case ActionResetMaster:
		return "master_reset"
	default:
		return "unknown"
	}
}

// Thresholds are the empirically chosen escalation constants.
type Thresholds struct {
	SelfHealCalls int           // succeeded calls without timeouts that clear the state
	MinCalls      int           // at most this many calls is too small a sample
	HealthyWindow int           // most recent calls that must contain a timeout
	RatioWindow   time.Duration // window for the failure ratio
	FailureRatio  float64       // ratios below this are tolerated
	BackoffMin    time.Duration
	BackoffMax    time.Duration
}

// DefaultThresholds returns the production values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SelfHealCalls: 30,
		MinCalls:      10,
		HealthyWindow: 10,
		RatioWindow:   180 * time.Second,
		FailureRatio:  0.25,
		BackoffMin:    300 * time.Second,
		BackoffMax:    1200 * time.Second,
	}
}

// Decision is the result of Analyze.
type Decision struct {
	Action  Action
	Backoff time.Duration // restart backoff to persist, only for ActionRestartProcess

	Health   uint16
	Ratio    float64
	Calls    int // calls inside the ratio window
	Timeouts int // timeouts inside the ratio window

	// ClearState is set when the link self-healed.
	ClearState bool

	// Tolerated is set when recent timeouts stayed below the failure ratio.
	Tolerated bool
}

type call struct {
	at      time.Time
	timeout bool
}

// Analyze decides the next recovery action. It is pure.
func Analyze(stats master.CommunicationStats, state State, now time.Time, th Thresholds) Decision {
	if len(stats.TimedOut) == 0 {
		d := Decision{Health: status.HealthUnknown}
		if len(stats.Succeeded) > 0 {
			d.Health = status.HealthOK
		}
		if len(stats.Succeeded) >= th.SelfHealCalls {
			d.ClearState = true
		}
		return d
	}

	all := mergeCalls(stats)
	if len(all) <= th.MinCalls {
		return Decision{Health: status.HealthUnknown}
	}

	recent := all
	if len(recent) > th.HealthyWindow {
		recent = recent[len(recent)-th.HealthyWindow:]
	}
	if !anyTimeout(recent) {
		return Decision{Health: status.HealthOK}
	}

	calls, timeouts := windowCounts(stats, now, th.RatioWindow)
	d := Decision{
		Calls:    calls,
		Timeouts: timeouts,
		Ratio:    ratio(calls, timeouts),
	}
	if d.Ratio < th.FailureRatio {
		d.Health = status.HealthDegraded
		d.Tolerated = true
		return d
	}

	d.Health = status.HealthError
	d.Action, d.Backoff = escalate(state, now, th)
	return d
}

// escalate picks restart before reset; reset only inside a running backoff
// and only once per restart.
func escalate(state State, now time.Time, th Thresholds) (Action, time.Duration) {
	last := state.ServiceRestart
	if last == nil {
		return ActionRestartProcess, th.BackoffMin
	}

	backoff := clampBackoff(last.Backoff, th)
	if now.Sub(last.Time) >= backoff {
		next := backoff * 2
		if next > th.BackoffMax {
			next = th.BackoffMax
		}
		return ActionRestartProcess, next
	}

	reset := state.MasterReset
	if reset == nil || reset.Time.Before(last.Time) {
		return ActionResetMaster, backoff
	}
	return ActionNone, backoff
}

// FailureRatio returns timeouts / calls among calls strictly newer than
// now-window. It is 0 when the window holds no calls.
func FailureRatio(stats master.CommunicationStats, now time.Time, window time.Duration) float64 {
	calls, timeouts := windowCounts(stats, now, window)
	return ratio(calls, timeouts)
}

func windowCounts(stats master.CommunicationStats, now time.Time, window time.Duration) (calls, timeouts int) {
	cutoff := now.Add(-window)
	for _, t := range stats.Succeeded {
		if t.After(cutoff) {
			calls++
		}
	}
	for _, t := range stats.TimedOut {
		if t.After(cutoff) {
			calls++
			timeouts++
		}
	}
	return calls, timeouts
}

func ratio(calls, timeouts int) float64 {
	if calls == 0 {
		return 0
	}
	return float64(timeouts) / float64(calls)
}

func mergeCalls(stats master.CommunicationStats) []call {
	all := make([]call, 0, len(stats.Succeeded)+len(stats.TimedOut))
	for _, t := range stats.Succeeded {
		all = append(all, call{at: t})
	}
	for _, t := range stats.TimedOut {
		all = append(all, call{at: t, timeout: true})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].at.Before(all[j].at) })
	return all
}

func anyTimeout(calls []call) bool {
	for _, c := range calls {
		if c.timeout {
			return true
		}
	}
	return false
}
