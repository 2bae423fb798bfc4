// internal/power/modbus.go
package power

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

const (
	coilOn  uint16 = 0xFF00
	coilOff uint16 = 0x0000
)

// coilWriter is the slice of modbus.Client the relay needs.
type coilWriter interface {
	WriteSingleCoil(address, value uint16) ([]byte, error)
}

type handler interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// RelayConfig describes a Modbus relay module wired into the master supply.
// Endpoints starting with "tcp://" use Modbus TCP, anything else is a
// serial device path for Modbus RTU.
type RelayConfig struct {
	Endpoint string
	SlaveID  uint8
	Coil     uint16
	BaudRate int
	Timeout  time.Duration

	// Inverted relays cut the supply while the coil is energized.
	Inverted bool
}

// Relay drives the power line through one relay coil.
// It serializes requests; the handler is not safe for concurrent use.
type Relay struct {
	mu       sync.Mutex
	handler  handler
	client   coilWriter
	coil     uint16
	inverted bool
}

// NewRelay connects to the relay module.
func NewRelay(cfg RelayConfig) (*Relay, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("power modbus: endpoint required")
	}

	var h handler
	if addr, ok := strings.CutPrefix(cfg.Endpoint, "tcp://"); ok {
		th := modbus.NewTCPClientHandler(addr)
		th.SlaveId = cfg.SlaveID
		th.Timeout = cfg.Timeout
		h = th
	} else {
		rh := modbus.NewRTUClientHandler(cfg.Endpoint)
		rh.BaudRate = cfg.BaudRate
		rh.DataBits = 8
		rh.Parity = "N"
		rh.StopBits = 1
		rh.SlaveId = cfg.SlaveID
		rh.Timeout = cfg.Timeout
		h = rh
	}

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("power modbus: connect %s: %w", cfg.Endpoint, err)
	}

	return &Relay{
		handler:  h,
		client:   modbus.NewClient(h),
		coil:     cfg.Coil,
		inverted: cfg.Inverted,
	}, nil
}

func (r *Relay) SetPower(_ context.Context, on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	energize := on != r.inverted
	value := coilOff
	if energize {
		value = coilOn
	}

	if _, err := r.client.WriteSingleCoil(r.coil, value); err != nil {
		return fmt.Errorf("power modbus: coil=%d on=%v: %w", r.coil, on, err)
	}
	return nil
}

func (r *Relay) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handler == nil {
		return nil
	}
	return r.handler.Close()
}
