// internal/recovery/monitor_test.go
package recovery

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/master-gateway/internal/master"
	"github.com/tamzrod/master-gateway/internal/master/mastertest"
	"github.com/tamzrod/master-gateway/internal/master/mocks"
	"github.com/tamzrod/master-gateway/internal/power"
	"github.com/tamzrod/master-gateway/internal/settings"
)

type recordingPower struct {
	states []bool
}

func (r *recordingPower) SetPower(_ context.Context, on bool) error {
	r.states = append(r.states, on)
	return nil
}

type monitorFixture struct {
	link      *mastertest.Master
	store     *settings.MemoryStore
	snapshots *SnapshotStore
	power     *recordingPower
	slept     []time.Duration
	now       time.Time
}

func newMonitor(t *testing.T, withPower bool) (*Monitor, *monitorFixture) {
	t.Helper()

	f := &monitorFixture{
		link:      mastertest.New(),
		store:     settings.NewMemoryStore(),
		snapshots: &SnapshotStore{Dir: t.TempDir(), Retain: 10},
		power:     &recordingPower{},
		now:       time.Unix(1_700_000_000, 0),
	}

	cfg := DefaultMonitorConfig()
	cfg.PowerHold = time.Millisecond

	var pc power.Controller
	if withPower {
		pc = f.power
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	m := NewMonitor(f.link, f.store, f.snapshots, pc, cfg, logger)
	m.now = func() time.Time { return f.now }
	m.sleep = func(_ context.Context, d time.Duration) error {
		f.slept = append(f.slept, d)
		return nil
	}
	return m, f
}

func TestMonitor_RestartPersistsAndTerminates(t *testing.T) {
	m, f := newMonitor(t, true)
	f.link.Stat = unhealthy(f.now)
	f.link.Buffer = []master.DebugEntry{{At: f.now, Direction: "write", Data: "status {}"}}

	err := m.Check(context.Background())

	var term *Termination
	require.True(t, errors.As(err, &term), "err=%v", err)
	assert.Equal(t, ActionRestartProcess, term.Action)
	assert.Equal(t, 15*time.Second, term.Grace)

	state, err := LoadState(f.store, DefaultThresholds())
	require.NoError(t, err)
	require.NotNil(t, state.ServiceRestart)
	assert.Equal(t, 300*time.Second, state.ServiceRestart.Backoff)
	assert.Equal(t, f.now.Unix(), state.ServiceRestart.Time.Unix())
	assert.Equal(t, m.Instance(), state.ServiceRestart.Instance)
	assert.Nil(t, state.MasterReset)

	files, err := f.snapshots.List()
	require.NoError(t, err)
	require.Len(t, files, 1)

	raw, err := os.ReadFile(files[0])
	require.NoError(t, err)
	var snap DebugSnapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.Equal(t, "communication_recovery", snap.Type)
	assert.Equal(t, "service_restart", snap.Data.Action)
	assert.Len(t, snap.Data.Calls.TimedOut, 8)
	assert.Len(t, snap.Data.Buffer, 1)

	assert.Equal(t, "service_restart", m.Last().Action)
	assert.Empty(t, f.power.states)
}

func TestMonitor_ResetPowerCyclesMaster(t *testing.T) {
	m, f := newMonitor(t, true)
	f.link.Stat = unhealthy(f.now)
	require.NoError(t, SaveState(f.store, State{ServiceRestart: &ServiceRestart{
		Reason:  reasonCommErrors,
		Time:    f.now.Add(-time.Minute),
		Backoff: 300 * time.Second,
	}}))

	err := m.Check(context.Background())

	var term *Termination
	require.True(t, errors.As(err, &term), "err=%v", err)
	assert.Equal(t, ActionResetMaster, term.Action)
	assert.Equal(t, 5*time.Second, term.Grace)
	assert.Equal(t, []bool{false, true}, f.power.states)
	assert.Equal(t, []time.Duration{time.Second}, f.slept)

	state, err := LoadState(f.store, DefaultThresholds())
	require.NoError(t, err)
	require.NotNil(t, state.MasterReset)
	require.NotNil(t, state.ServiceRestart)
	assert.Equal(t, f.now.Unix(), state.MasterReset.Time.Unix())
	assert.Equal(t, 300*time.Second, state.ServiceRestart.Backoff)
}

func TestMonitor_ResetWithoutPowerControlUsesFirmwareReset(t *testing.T) {
	m, f := newMonitor(t, false)
	f.link.Stat = unhealthy(f.now)
	require.NoError(t, SaveState(f.store, State{ServiceRestart: &ServiceRestart{
		Time:    f.now.Add(-time.Minute),
		Backoff: 300 * time.Second,
	}}))

	err := m.Check(context.Background())
	var term *Termination
	require.True(t, errors.As(err, &term))
	assert.Contains(t, f.link.Commands, master.CmdReset)
}

func TestMonitor_WaitsAfterReset(t *testing.T) {
	m, f := newMonitor(t, true)
	f.link.Stat = unhealthy(f.now)
	require.NoError(t, SaveState(f.store, State{
		ServiceRestart: &ServiceRestart{Time: f.now.Add(-2 * time.Minute), Backoff: 300 * time.Second},
		MasterReset:    &MasterReset{Time: f.now.Add(-time.Minute)},
	}))

	require.NoError(t, m.Check(context.Background()))
	assert.Empty(t, f.power.states)

	files, _ := f.snapshots.List()
	assert.Empty(t, files)
}

func TestMonitor_SelfHealClearsState(t *testing.T) {
	m, f := newMonitor(t, true)
	require.NoError(t, SaveState(f.store, State{ServiceRestart: &ServiceRestart{Time: f.now, Backoff: 600 * time.Second}}))
	for i := 0; i < 30; i++ {
		f.link.Stat.Succeeded = append(f.link.Stat.Succeeded, f.now.Add(-time.Duration(i)*time.Second))
	}

	require.NoError(t, m.Check(context.Background()))

	state, err := LoadState(f.store, DefaultThresholds())
	require.NoError(t, err)
	assert.True(t, state.Empty())
}

func TestMonitor_ToleratedDoesNothing(t *testing.T) {
	m, f := newMonitor(t, true)
	for i := 0; i < 20; i++ {
		f.link.Stat.Succeeded = append(f.link.Stat.Succeeded, f.now.Add(-time.Duration(30-i)*time.Second))
	}
	f.link.Stat.TimedOut = []time.Time{f.now.Add(-5 * time.Second)}

	require.NoError(t, m.Check(context.Background()))

	state, err := LoadState(f.store, DefaultThresholds())
	require.NoError(t, err)
	assert.True(t, state.Empty())
	assert.Empty(t, m.Last().Action)
}

func TestMonitor_ResetFallsBackToSoftResetOnMockLink(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	link := mocks.NewMockLink(t)
	link.EXPECT().Stats().Return(unhealthy(now)).Once()
	link.EXPECT().DebugBuffer().Return(nil).Once()
	link.EXPECT().Do(mock.Anything, master.CmdReset, mock.Anything).Return(master.Fields{"resp": "OK"}, nil).Once()

	store := settings.NewMemoryStore()
	require.NoError(t, SaveState(store, State{ServiceRestart: &ServiceRestart{
		Time:    now.Add(-time.Minute),
		Backoff: 300 * time.Second,
	}}))

	m := NewMonitor(link, store, &SnapshotStore{Dir: t.TempDir(), Retain: 10}, nil,
		DefaultMonitorConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.now = func() time.Time { return now }
	m.sleep = func(context.Context, time.Duration) error { return nil }

	var term *Termination
	require.ErrorAs(t, m.Check(context.Background()), &term)
	assert.Equal(t, ActionResetMaster, term.Action)
}
