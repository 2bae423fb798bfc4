// internal/link/bridge/events.go
package bridge

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/tamzrod/master-gateway/internal/event"
)

// EventStream receives raw event frames pushed by the link daemon.
type EventStream struct {
	endpoint  string
	timeout   time.Duration
	reconnect time.Duration
	log       *slog.Logger
}

// EventStreamConfig configures an EventStream.
type EventStreamConfig struct {
	Endpoint  string
	Timeout   time.Duration // dial timeout
	Reconnect time.Duration // wait between connection attempts
}

func NewEventStream(cfg EventStreamConfig, logger *slog.Logger) (*EventStream, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("bridge: events endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.Reconnect <= 0 {
		cfg.Reconnect = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EventStream{
		endpoint:  cfg.Endpoint,
		timeout:   cfg.Timeout,
		reconnect: cfg.Reconnect,
		log:       logger,
	}, nil
}

// Run delivers frames to fn until ctx is cancelled, reconnecting after
// connection loss.
func (s *EventStream) Run(ctx context.Context, fn func(event.Frame)) error {
	for {
		err := s.session(ctx, fn)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn("event stream lost", slog.String("endpoint", s.endpoint), slog.Any("err", err))

		t := time.NewTimer(s.reconnect)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

func (s *EventStream) session(ctx context.Context, fn func(event.Frame)) error {
	d := net.Dialer{Timeout: s.timeout}
	conn, err := d.DialContext(ctx, "tcp", s.endpoint)
	if err != nil {
		return fmt.Errorf("bridge: events dial: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		f, err := ReadFrame(conn)
		if err != nil {
			return err
		}
		fn(f)
	}
}

// ReadFrame reads one event frame:
// type | action | device_nr:u16 BE | len | data.
func ReadFrame(r io.Reader) (event.Frame, error) {
	var hdr [5]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return event.Frame{}, err
	}
	data := make([]byte, hdr[4])
	if _, err := io.ReadFull(r, data); err != nil {
		return event.Frame{}, fmt.Errorf("bridge: event payload: %w", err)
	}
	return event.Frame{
		TypeCode: hdr[0],
		Action:   hdr[1],
		DeviceNr: int(binary.BigEndian.Uint16(hdr[2:4])),
		Data:     data,
	}, nil
}
