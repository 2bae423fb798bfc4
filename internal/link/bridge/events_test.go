// internal/link/bridge/events_test.go
package bridge

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/master-gateway/internal/event"
)

func TestReadFrame(t *testing.T) {
	r := bytes.NewReader([]byte{0, 1, 0x01, 0x02, 4, 50, 1, 10, 0})

	f, err := ReadFrame(r)
	require.NoError(t, err)
	assert.Equal(t, event.Frame{TypeCode: 0, Action: 1, DeviceNr: 258, Data: []byte{50, 1, 10, 0}}, f)

	_, err = ReadFrame(r)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadFrame_Truncated(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader([]byte{2, 0, 0, 1, 3, 9}))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestEventStream_DeliversUntilCancelled(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = conn.Write([]byte{1, 1, 0, 7, 3, 0, 0, 0})
		_, _ = conn.Write([]byte{2, 2, 0, 3, 3, 1, 2, 0})
		_, _ = io.Copy(io.Discard, conn)
	}()

	s, err := NewEventStream(EventStreamConfig{Endpoint: ln.Addr().String(), Reconnect: 10 * time.Millisecond},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	frames := make(chan event.Frame, 2)
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, func(f event.Frame) { frames <- f }) }()

	first := <-frames
	second := <-frames
	assert.Equal(t, event.InputEvent{Input: 7, Status: true}, event.Decode(first))
	assert.Equal(t, event.SensorEvent{Sensor: 3, Type: event.SensorBrightness, Value: 0x0102, HasValue: true}, event.Decode(second))

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
