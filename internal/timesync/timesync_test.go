// internal/timesync/timesync_test.go
package timesync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/master-gateway/internal/master"
	"github.com/tamzrod/master-gateway/internal/master/mastertest"
)

func newValidator(m *mastertest.Master, now time.Time) *Validator {
	v := New(m, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	v.now = func() time.Time { return now }
	return v
}

// 2024-03-04 is a Monday.
func monday(h, m int) time.Time {
	return time.Date(2024, 3, 4, h, m, 0, 0, time.Local)
}

func TestCheck_SkipWindow(t *testing.T) {
	m := mastertest.New()
	m.Status["hours"] = 6
	m.Status["weekday"] = 1

	synced, err := newValidator(m, monday(0, 5)).Check(context.Background())
	require.NoError(t, err)
	assert.False(t, synced)
	assert.Empty(t, m.SetTimes)

	synced, err = newValidator(m, monday(0, 20)).Check(context.Background())
	require.NoError(t, err)
	assert.True(t, synced)
	require.Len(t, m.SetTimes, 1)

	got := m.SetTimes[0]
	assert.Equal(t, 0, got["hours"])
	assert.Equal(t, 20, got["min"])
	assert.Equal(t, 1, got["weekday"])
	assert.Equal(t, 4, got["day"])
	assert.Equal(t, 3, got["month"])
	assert.Equal(t, 24, got["year"])
}

func TestCheck_InSync(t *testing.T) {
	m := mastertest.New()
	m.Status["hours"], m.Status["minutes"], m.Status["seconds"] = 10, 2, 0
	m.Status["weekday"] = 1

	synced, err := newValidator(m, monday(10, 0)).Check(context.Background())
	require.NoError(t, err)
	assert.False(t, synced)
	assert.Empty(t, m.SetTimes)
}

func TestCheck_WeekdayMismatch(t *testing.T) {
	m := mastertest.New()
	m.Status["hours"], m.Status["minutes"] = 10, 0
	m.Status["weekday"] = 2

	synced, err := newValidator(m, monday(10, 0)).Check(context.Background())
	require.NoError(t, err)
	assert.True(t, synced)
}

func TestCheck_StatusError(t *testing.T) {
	m := mastertest.New()
	m.Fail = func(master.Command, master.Fields) error { return master.ErrLinkTimeout }

	_, err := newValidator(m, monday(10, 0)).Check(context.Background())
	assert.True(t, errors.Is(err, master.ErrLinkTimeout))
}

func TestNeedsSync_Tolerance(t *testing.T) {
	now := monday(10, 0)
	st := master.Status{Hours: 10, Minutes: 3, Seconds: 0, Weekday: 1}
	assert.False(t, NeedsSync(st, now, DefaultTolerance))

	st.Seconds = 1
	assert.True(t, NeedsSync(st, now, DefaultTolerance))
}

func TestISOWeekday(t *testing.T) {
	assert.Equal(t, 1, ISOWeekday(monday(12, 0)))
	assert.Equal(t, 7, ISOWeekday(monday(12, 0).AddDate(0, 0, 6)))
}
