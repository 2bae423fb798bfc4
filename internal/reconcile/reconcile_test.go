// internal/reconcile/reconcile_test.go
package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/tamzrod/master-gateway/internal/master"
	"github.com/tamzrod/master-gateway/internal/master/mastertest"
)

func newReconciler(m *mastertest.Master) *Reconciler {
	return New(m, nil, DefaultRules(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestReconcile_Idempotent(t *testing.T) {
	m := mastertest.New()
	r := newReconciler(m)

	applied, err := r.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("first run err=%v", err)
	}
	// Erased memory (0xFF) satisfies offset 11 and the thermostat bit.
	if len(applied) != 6 {
		t.Fatalf("first run applied %d rules: %v", len(applied), applied)
	}
	if m.Activations != 1 {
		t.Fatalf("expected 1 activation, got %d", m.Activations)
	}
	if !m.LedsOn {
		t.Fatalf("status leds not switched on")
	}

	m.ResetCalls()
	m.LedsOn = false

	applied, err = r.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("second run err=%v", err)
	}
	if len(applied) != 0 || len(m.Writes) != 0 {
		t.Fatalf("second run wrote: applied=%v writes=%v", applied, m.Writes)
	}
	if m.Activations != 0 {
		t.Fatalf("second run activated configuration")
	}
	if !m.LedsOn {
		t.Fatalf("status leds must always be switched on")
	}
}

func TestReconcile_MaskKeepsOtherBits(t *testing.T) {
	m := mastertest.New()
	for _, rule := range DefaultRules() {
		want, _ := rule.Want(m.Memory[rule.Offset])
		m.Memory[rule.Offset] = want
	}
	m.Memory[14] = 0x05

	applied, err := newReconciler(m).Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile err=%v", err)
	}
	if len(applied) != 1 || applied[0] != "enable multi-tenant thermostats" {
		t.Fatalf("unexpected applied rules: %v", applied)
	}
	if m.Memory[14] != 0x45 {
		t.Fatalf("offset 14: got=%#x want=0x45", m.Memory[14])
	}
	if len(m.Writes) != 1 || m.Writes[0].Bank != 0 || m.Writes[0].Address != 14 {
		t.Fatalf("unexpected writes: %+v", m.Writes)
	}
}

func TestReconcile_WriteFailureAborts(t *testing.T) {
	m := mastertest.New()
	m.Fail = func(cmd master.Command, _ master.Fields) error {
		if cmd == master.CmdWriteEeprom {
			return master.ErrLinkTimeout
		}
		return nil
	}

	_, err := newReconciler(m).Reconcile(context.Background())
	if !errors.Is(err, master.ErrLinkTimeout) {
		t.Fatalf("expected link timeout, got %v", err)
	}
	if m.Activations != 0 {
		t.Fatalf("activated after failed write")
	}
}

func TestRule_Want(t *testing.T) {
	r := Rule{Offset: 14, Mask: 0x40}
	if got, ok := r.Want(0x40); !ok || got != 0x40 {
		t.Fatalf("mask set: got=%#x ok=%v", got, ok)
	}
	if got, ok := r.Want(0x01); ok || got != 0x41 {
		t.Fatalf("mask unset: got=%#x ok=%v", got, ok)
	}

	v := Rule{Offset: 59, Value: 32}
	if _, ok := v.Want(32); !ok {
		t.Fatalf("value rule should comply")
	}
}
