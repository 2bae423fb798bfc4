// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// All problems are reported together.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}
	g := cfg.Gateway

	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	// ------------------------------------------------------------
	// LINK
	// ------------------------------------------------------------

	if g.Link.Endpoint == "" {
		fail("link: endpoint required")
	}
	if g.Link.TimeoutMs < 0 {
		fail("link: timeout_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// NON-NEGATIVE DURATIONS (0 = default)
	// ------------------------------------------------------------

	for _, f := range []struct {
		name string
		v    int
	}{
		{"watchdog.poll_interval_ms", g.Watchdog.PollIntervalMs},
		{"watchdog.communication_check_s", g.Watchdog.CommunicationCheckS},
		{"watchdog.time_check_s", g.Watchdog.TimeCheckS},
		{"watchdog.settings_check_s", g.Watchdog.SettingsCheckS},
		{"watchdog.timeout_wait_s", g.Watchdog.TimeoutWaitS},
		{"watchdog.maintenance_wait_s", g.Watchdog.MaintenanceWaitS},
		{"watchdog.error_wait_s", g.Watchdog.ErrorWaitS},
		{"recovery.debug_retain", g.Recovery.DebugRetain},
		{"recovery.restart_grace_ms", g.Recovery.RestartGraceMs},
		{"recovery.reset_grace_ms", g.Recovery.ResetGraceMs},
		{"recovery.reset_settle_ms", g.Recovery.ResetSettleMs},
		{"recovery.self_heal_calls", g.Recovery.SelfHealCalls},
		{"recovery.min_calls", g.Recovery.MinCalls},
		{"recovery.healthy_window", g.Recovery.HealthyWindow},
		{"recovery.ratio_window_s", g.Recovery.RatioWindowS},
		{"recovery.backoff_min_s", g.Recovery.BackoffMinS},
		{"recovery.backoff_max_s", g.Recovery.BackoffMaxS},
		{"timesync.tolerance_s", g.TimeSync.ToleranceS},
		{"power.hold_ms", g.Power.HoldMs},
	} {
		if f.v < 0 {
			fail("%s must be >= 0", f.name)
		}
	}

	// ------------------------------------------------------------
	// RECOVERY THRESHOLDS
	// ------------------------------------------------------------

	if r := g.Recovery.FailureRatio; r < 0 || r > 1 {
		fail("recovery: failure_ratio must be within [0, 1], got %g", r)
	}
	if g.Recovery.BackoffMinS > 0 && g.Recovery.BackoffMaxS > 0 &&
		g.Recovery.BackoffMinS > g.Recovery.BackoffMaxS {
		fail("recovery: backoff_min_s (%d) exceeds backoff_max_s (%d)",
			g.Recovery.BackoffMinS, g.Recovery.BackoffMaxS)
	}

	// ------------------------------------------------------------
	// POWER
	// ------------------------------------------------------------

	switch g.Power.Driver {
	case "", "none":
	case "gpio":
		if g.Power.GPIO.Pin == nil {
			fail("power: gpio driver requires gpio.pin")
		} else if *g.Power.GPIO.Pin < 0 {
			fail("power: gpio.pin must be >= 0")
		}
	case "modbus":
		if g.Power.Modbus.Endpoint == "" {
			fail("power: modbus driver requires modbus.endpoint")
		}
		if g.Power.Modbus.BaudRate < 0 || g.Power.Modbus.TimeoutMs < 0 {
			fail("power: modbus baud_rate and timeout_ms must be >= 0")
		}
	default:
		fail("power: unknown driver %q (want gpio, modbus or none)", g.Power.Driver)
	}

	// ------------------------------------------------------------
	// STORAGE
	// ------------------------------------------------------------

	if p := g.EEPROM.RetryPauseMs; p != nil && *p < 0 {
		fail("eeprom: retry_pause_ms must be >= 0")
	}
	if g.Events.Journal != "" && g.Link.EventsEndpoint == "" {
		fail("events: journal set but link.events_endpoint is empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, " | "))
	}
	return nil
}
