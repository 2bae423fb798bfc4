// internal/master/mastertest/fake.go

// Package mastertest provides an in-memory master for tests.
package mastertest

import (
	"context"
	"fmt"
	"sync"

	"github.com/tamzrod/master-gateway/internal/master"
)

const memorySize = 256 * 256

// Write is one recorded write_eeprom call.
type Write struct {
	Bank    int
	Address int
	Data    []byte
}

// Master is a fake master.Link backed by a 64 KiB memory image.
// Stats are not derived from calls; tests set them directly.
type Master struct {
	mu sync.Mutex

	Memory [memorySize]byte
	Status master.Fields

	Writes      []Write
	Activations int
	LedsOn      bool
	SetTimes    []master.Fields
	Commands    []master.Command

	// ReadTimeouts makes eeprom_list of a bank time out N times.
	ReadTimeouts map[int]int

	// Fail, when set, is consulted before every command.
	Fail func(cmd master.Command, fields master.Fields) error

	Stat   master.CommunicationStats
	Buffer []master.DebugEntry
}

// New returns a fake master with erased (0xFF) memory.
func New() *Master {
	m := &Master{
		ReadTimeouts: map[int]int{},
		Status: master.Fields{
			"hours": 12, "minutes": 0, "seconds": 0,
			"weekday": 1, "day": 1, "month": 1, "year": 24,
			"mode": 76, "f1": 3, "f2": 143, "f3": 103, "h": 4,
		},
	}
	for i := range m.Memory {
		m.Memory[i] = 0xFF
	}
	return m
}

// Do implements master.Link.
func (m *Master) Do(_ context.Context, cmd master.Command, fields master.Fields) (master.Fields, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Commands = append(m.Commands, cmd)

	if m.Fail != nil {
		if err := m.Fail(cmd, fields); err != nil {
			return nil, err
		}
	}

	switch cmd {
	case master.CmdStatus:
		out := master.Fields{}
		for k, v := range m.Status {
			out[k] = v
		}
		return out, nil

	case master.CmdEepromList:
		bank, err := fields.Int("bank")
		if err != nil {
			return nil, err
		}
		if n := m.ReadTimeouts[bank]; n > 0 {
			m.ReadTimeouts[bank] = n - 1
			return nil, master.ErrLinkTimeout
		}
		data := make([]byte, 256)
		copy(data, m.Memory[bank*256:(bank+1)*256])
		return master.Fields{"data": data}, nil

	case master.CmdWriteEeprom:
		bank, err := fields.Int("bank")
		if err != nil {
			return nil, err
		}
		addr, err := fields.Int("address")
		if err != nil {
			return nil, err
		}
		data, err := fields.Bytes("data")
		if err != nil {
			return nil, err
		}
		if addr+len(data) > 256 {
			return nil, fmt.Errorf("mastertest: write past bank end: bank=%d addr=%d len=%d", bank, addr, len(data))
		}
		copy(m.Memory[bank*256+addr:], data)
		m.Writes = append(m.Writes, Write{Bank: bank, Address: addr, Data: append([]byte(nil), data...)})
		return master.Fields{"resp": "OK"}, nil

	case master.CmdActivateEeprom:
		m.Activations++
		return master.Fields{"resp": "OK"}, nil

	case master.CmdBasicAction:
		at, _ := fields.Int("action_type")
		nr, _ := fields.Int("action_number")
		if at == int(master.BAStatusLeds) {
			m.LedsOn = nr == 1
		}
		return master.Fields{"resp": "OK"}, nil

	case master.CmdSetTime:
		m.SetTimes = append(m.SetTimes, fields)
		return master.Fields{"resp": "OK"}, nil

	case master.CmdErrorList:
		return master.Fields{"errors": []any{[]any{"O1", 0}, []any{"I1", 3}}}, nil

	case master.CmdClearErrorList, master.CmdReset:
		return master.Fields{"resp": "OK"}, nil
	}

	return nil, fmt.Errorf("mastertest: unsupported command %q", cmd)
}

// Stats implements master.Link.
func (m *Master) Stats() master.CommunicationStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return master.CommunicationStats{
		Succeeded: append(m.Stat.Succeeded[:0:0], m.Stat.Succeeded...),
		TimedOut:  append(m.Stat.TimedOut[:0:0], m.Stat.TimedOut...),
	}
}

// DebugBuffer implements master.Link.
func (m *Master) DebugBuffer() []master.DebugEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]master.DebugEntry(nil), m.Buffer...)
}

// Image returns a copy of the memory.
func (m *Master) Image() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.Memory[:]...)
}

// ResetCalls clears recorded writes, activations and commands.
func (m *Master) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes = nil
	m.Activations = 0
	m.Commands = nil
	m.SetTimes = nil
}

var _ master.Link = (*Master)(nil)
