// internal/event/journal.go
package event

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

var (
	journalEncMode cbor.EncMode
	journalDecMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	journalEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("event: journal CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}
	journalDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("event: journal CBOR decoder mode: %v", err))
	}
}

// Record is one journal entry. Exactly one of the event fields is set.
type Record struct {
	Timestamp time.Time `cbor:"1,keyasint"`
	Kind      Kind      `cbor:"2,keyasint"`

	Output  *OutputEvent  `cbor:"10,keyasint,omitempty"`
	Input   *InputEvent   `cbor:"11,keyasint,omitempty"`
	Sensor  *SensorEvent  `cbor:"12,keyasint,omitempty"`
	Unknown *UnknownEvent `cbor:"13,keyasint,omitempty"`
}

// NewRecord wraps ev in a Record.
func NewRecord(at time.Time, ev Event) Record {
	r := Record{Timestamp: at, Kind: ev.Kind()}
	switch e := ev.(type) {
	case OutputEvent:
		r.Output = &e
	case InputEvent:
		r.Input = &e
	case SensorEvent:
		r.Sensor = &e
	case UnknownEvent:
		r.Unknown = &e
	}
	return r
}

// Event returns the event held by r, or nil for an empty record.
func (r Record) Event() Event {
	switch {
	case r.Output != nil:
		return *r.Output
	case r.Input != nil:
		return *r.Input
	case r.Sensor != nil:
		return *r.Sensor
	case r.Unknown != nil:
		return *r.Unknown
	}
	return nil
}

// Journal appends decoded events to a CBOR file.
// It is safe for concurrent use.
type Journal struct {
	mu      sync.Mutex
	file    *os.File
	encoder *cbor.Encoder
	closed  bool
}

// OpenJournal opens path for appending, creating it if needed.
func OpenJournal(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("event: journal dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("event: open journal: %w", err)
	}
	return &Journal{file: f, encoder: journalEncMode.NewEncoder(f)}, nil
}

// Append writes ev. Writes after Close are ignored.
func (j *Journal) Append(at time.Time, ev Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	if err := j.encoder.Encode(NewRecord(at, ev)); err != nil {
		return fmt.Errorf("event: journal append: %w", err)
	}
	return nil
}

// Close closes the journal. It is safe to call more than once.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true
	return j.file.Close()
}

// ReadJournal returns every record in the journal at path.
func ReadJournal(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("event: open journal: %w", err)
	}
	defer f.Close()

	dec := journalDecMode.NewDecoder(f)
	var out []Record
	for {
		var r Record
		err := dec.Decode(&r)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("event: read journal: %w", err)
		}
		out = append(out, r)
	}
}
