// internal/recovery/state.go
package recovery

import (
	"fmt"
	"math"
	"time"

	"github.com/tamzrod/master-gateway/internal/settings"
)

// SettingsKey is the settings key holding the persisted State.
const SettingsKey = "communication_recovery"

// ServiceRestart records the last process restart triggered by recovery.
type ServiceRestart struct {
	Reason   string
	Time     time.Time
	Backoff  time.Duration
	Instance string
}

// MasterReset records the last master power cycle triggered by recovery.
type MasterReset struct {
	Reason   string
	Time     time.Time
	Instance string
}

// State is the recovery escalation state that survives process restarts.
type State struct {
	ServiceRestart *ServiceRestart
	MasterReset    *MasterReset
}

// Empty reports whether nothing has been escalated yet.
func (s State) Empty() bool {
	return s.ServiceRestart == nil && s.MasterReset == nil
}

// ---- persisted form ----
// Times are unix seconds, backoff is whole seconds.

type serviceRestartRecord struct {
	Reason   string  `json:"reason"`
	Time     float64 `json:"time"`
	Backoff  int     `json:"backoff"`
	Instance string  `json:"instance,omitempty"`
}

type masterResetRecord struct {
	Reason   string  `json:"reason"`
	Time     float64 `json:"time"`
	Instance string  `json:"instance,omitempty"`
}

type stateRecord struct {
	ServiceRestart *serviceRestartRecord `json:"service_restart,omitempty"`
	MasterReset    *masterResetRecord    `json:"master_reset,omitempty"`
}

// LoadState reads the persisted state. A missing key is an empty State.
// Backoff values outside [min, max] are clamped back into range.
func LoadState(store settings.Store, th Thresholds) (State, error) {
	var rec stateRecord
	if _, err := store.Get(SettingsKey, &rec); err != nil {
		return State{}, fmt.Errorf("recovery: load state: %w", err)
	}

	var s State
	if r := rec.ServiceRestart; r != nil {
		s.ServiceRestart = &ServiceRestart{
			Reason:   r.Reason,
			Time:     fromUnix(r.Time),
			Backoff:  clampBackoff(time.Duration(r.Backoff)*time.Second, th),
			Instance: r.Instance,
		}
	}
	if r := rec.MasterReset; r != nil {
		s.MasterReset = &MasterReset{
			Reason:   r.Reason,
			Time:     fromUnix(r.Time),
			Instance: r.Instance,
		}
	}
	return s, nil
}

// SaveState persists s.
func SaveState(store settings.Store, s State) error {
	var rec stateRecord
	if r := s.ServiceRestart; r != nil {
		rec.ServiceRestart = &serviceRestartRecord{
			Reason:   r.Reason,
			Time:     toUnix(r.Time),
			Backoff:  int(r.Backoff / time.Second),
			Instance: r.Instance,
		}
	}
	if r := s.MasterReset; r != nil {
		rec.MasterReset = &masterResetRecord{
			Reason:   r.Reason,
			Time:     toUnix(r.Time),
			Instance: r.Instance,
		}
	}
	if err := store.Set(SettingsKey, rec); err != nil {
		return fmt.Errorf("recovery: save state: %w", err)
	}
	return nil
}

// ClearState removes the persisted state.
func ClearState(store settings.Store) error {
	if err := store.Remove(SettingsKey); err != nil {
		return fmt.Errorf("recovery: clear state: %w", err)
	}
	return nil
}

func clampBackoff(d time.Duration, th Thresholds) time.Duration {
	if d < th.BackoffMin {
		return th.BackoffMin
	}
	if d > th.BackoffMax {
		return th.BackoffMax
	}
	return d
}

func toUnix(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func fromUnix(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(frac*1e9))
}
