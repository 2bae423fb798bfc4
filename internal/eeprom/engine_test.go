// internal/eeprom/engine_test.go
package eeprom

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/master-gateway/internal/master"
	"github.com/tamzrod/master-gateway/internal/master/mastertest"
)

func newEngine(m *mastertest.Master) (*Engine, *[]time.Duration) {
	var slept []time.Duration
	e := New(m, nil, DefaultRetryPause, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return e, &slept
}

func patterned() []byte {
	img := make([]byte, ImageSize)
	for i := range img {
		img[i] = byte(i * 7)
	}
	return img
}

func TestRestore_RoundTripWritesNothing(t *testing.T) {
	m := mastertest.New()
	copy(m.Memory[:], patterned())
	e, _ := newEngine(m)

	img, err := e.Backup(context.Background())
	require.NoError(t, err)
	require.Len(t, img, ImageSize)

	report, err := e.Restore(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, []string{ActivatedMarker}, report)
	assert.Empty(t, m.Writes)
	assert.Equal(t, 1, m.Activations)
}

func TestRestore_SingleChunkInBank5(t *testing.T) {
	m := mastertest.New()
	copy(m.Memory[:], patterned())
	e, _ := newEngine(m)

	img := patterned()
	img[5*BankSize+43] ^= 0xFF

	report, err := e.Restore(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, []string{"B5A40", ActivatedMarker}, report)

	require.Len(t, m.Writes, 1)
	assert.Equal(t, mastertest.Write{Bank: 5, Address: 40, Data: img[5*BankSize+40 : 5*BankSize+50]}, m.Writes[0])
	assert.Equal(t, img, m.Image())
}

func TestRestore_ShortLastChunk(t *testing.T) {
	m := mastertest.New()
	e, _ := newEngine(m)

	img := Erased()
	img[BankSize-1] = 0x00

	report, err := e.Restore(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, []string{"B0A250", ActivatedMarker}, report)
	require.Len(t, m.Writes, 1)
	assert.Len(t, m.Writes[0].Data, 6)
}

func TestRestore_WriteFailureAborts(t *testing.T) {
	m := mastertest.New()
	m.Fail = func(cmd master.Command, f master.Fields) error {
		if cmd == master.CmdWriteEeprom {
			return master.ErrLinkTimeout
		}
		return nil
	}
	e, _ := newEngine(m)

	img := Erased()
	img[3*BankSize] = 1

	report, err := e.Restore(context.Background(), img)
	require.Error(t, err)
	assert.ErrorIs(t, err, master.ErrLinkTimeout)
	assert.ErrorContains(t, err, "bank=3 offset=0")
	assert.Empty(t, report)
	assert.Zero(t, m.Activations)
}

func TestRestore_WrongSize(t *testing.T) {
	e, _ := newEngine(mastertest.New())
	_, err := e.Restore(context.Background(), make([]byte, 100))
	assert.ErrorIs(t, err, ErrImageSize)
}

func TestFactoryWipe(t *testing.T) {
	m := mastertest.New()
	m.Memory[10*BankSize+100] = 0x12
	m.Memory[200*BankSize] = 0x34
	e, _ := newEngine(m)

	report, err := e.FactoryWipe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"B10A100", "B200A0", ActivatedMarker}, report)
	assert.Equal(t, Erased(), m.Image())
}

func TestBackup_RetriesOnce(t *testing.T) {
	m := mastertest.New()
	m.ReadTimeouts[17] = 1
	e, slept := newEngine(m)

	img, err := e.Backup(context.Background())
	require.NoError(t, err)
	assert.Len(t, img, ImageSize)
	assert.Equal(t, []time.Duration{DefaultRetryPause}, *slept)
}

func TestBackup_SecondTimeoutIsFatal(t *testing.T) {
	m := mastertest.New()
	m.ReadTimeouts[17] = 2
	e, _ := newEngine(m)

	img, err := e.Backup(context.Background())
	assert.Nil(t, img)
	assert.True(t, errors.Is(err, master.ErrLinkTimeout))
	assert.ErrorContains(t, err, "bank=17")
}

func TestDiff(t *testing.T) {
	a := Erased()
	b := Erased()
	b[0] = 0
	b[255*BankSize+255] = 0

	spans, err := Diff(a, b)
	require.NoError(t, err)
	assert.Equal(t, []Span{{Bank: 0, Offset: 0, Length: 10}, {Bank: 255, Offset: 250, Length: 6}}, spans)

	_, err = Diff(a, b[:10])
	assert.ErrorIs(t, err, ErrImageSize)
}

func TestImageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backups", "master.eep")
	img := patterned()

	require.NoError(t, WriteImageFile(path, img))
	got, err := ReadImageFile(path)
	require.NoError(t, err)
	assert.Equal(t, img, got)

	assert.ErrorIs(t, WriteImageFile(path, img[:5]), ErrImageSize)
}
