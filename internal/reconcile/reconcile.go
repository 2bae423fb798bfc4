// internal/reconcile/reconcile.go

// Package reconcile enforces the master configuration flags the gateway
// depends on.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tamzrod/master-gateway/internal/master"
)

// Reconciler patches configuration bytes that drifted from their rules.
type Reconciler struct {
	link  master.Executor
	guard sync.Locker
	rules []Rule
	log   *slog.Logger
}

// New returns a Reconciler. guard serializes configuration memory access
// with backup and restore; nil means no sharing.
func New(link master.Executor, guard sync.Locker, rules []Rule, logger *slog.Logger) *Reconciler {
	if guard == nil {
		guard = &sync.Mutex{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{link: link, guard: guard, rules: rules, log: logger}
}

// Reconcile reads the settings bank, writes every non-compliant byte,
// activates the configuration when something changed and turns the status
// LEDs on. It returns the descriptions of the rules it applied.
func (r *Reconciler) Reconcile(ctx context.Context) ([]string, error) {
	r.guard.Lock()
	defer r.guard.Unlock()

	bank, err := master.ReadBank(ctx, r.link, SettingsBank)
	if err != nil {
		return nil, fmt.Errorf("reconcile: read bank %d: %w", SettingsBank, err)
	}

	var applied []string
	for _, rule := range r.rules {
		if rule.Offset < 0 || rule.Offset >= len(bank) {
			return applied, fmt.Errorf("reconcile: rule %q: offset %d outside bank", rule.Description, rule.Offset)
		}
		want, ok := rule.Want(bank[rule.Offset])
		if ok {
			continue
		}

		r.log.Info(rule.Description, slog.Int("offset", rule.Offset))
		if err := master.WriteBank(ctx, r.link, SettingsBank, rule.Offset, []byte{want}); err != nil {
			return applied, fmt.Errorf("reconcile: %s: write bank=%d offset=%d: %w", rule.Description, SettingsBank, rule.Offset, err)
		}
		bank[rule.Offset] = want
		applied = append(applied, rule.Description)
	}

	if len(applied) > 0 {
		if err := master.ActivateEeprom(ctx, r.link); err != nil {
			return applied, fmt.Errorf("reconcile: activate: %w", err)
		}
	}

	if err := master.SetStatusLeds(ctx, r.link, true); err != nil {
		return applied, fmt.Errorf("reconcile: status leds: %w", err)
	}
	return applied, nil
}
