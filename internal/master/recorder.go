// internal/master/recorder.go
package master

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// statsRetention bounds each outcome list; the analyzer never looks
	// further back than a few minutes.
	statsRetention = 4096

	// debugBufferSize is the number of traffic lines kept for snapshots.
	debugBufferSize = 128
)

// Recorder serializes calls to an Executor and records their outcome.
type Recorder struct {
	mu   sync.Mutex
	exec Executor
	now  func() time.Time

	succeeded []time.Time
	timedOut  []time.Time
	debug     []DebugEntry
}

// NewRecorder wraps exec into a Link.
func NewRecorder(exec Executor) *Recorder {
	return &Recorder{exec: exec, now: time.Now}
}

// Do forwards one command, recording success or timeout.
// Other failures (rejections, maintenance mode) are not counted.
func (r *Recorder) Do(ctx context.Context, cmd Command, fields Fields) (Fields, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.trace("write", string(cmd)+" "+formatFields(fields))

	out, err := r.exec.Do(ctx, cmd, fields)
	at := r.now()

	switch {
	case err == nil:
		r.succeeded = appendBounded(r.succeeded, at)
		r.trace("read", string(cmd)+" "+formatFields(out))
	case errors.Is(err, ErrLinkTimeout):
		r.timedOut = appendBounded(r.timedOut, at)
		r.trace("read", string(cmd)+" timeout")
	default:
		r.trace("read", string(cmd)+" error: "+err.Error())
	}

	return out, err
}

// Stats returns copies of the outcome lists.
func (r *Recorder) Stats() CommunicationStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return CommunicationStats{
		Succeeded: append([]time.Time(nil), r.succeeded...),
		TimedOut:  append([]time.Time(nil), r.timedOut...),
	}
}

// DebugBuffer returns a copy of the recent traffic lines, oldest first.
func (r *Recorder) DebugBuffer() []DebugEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]DebugEntry(nil), r.debug...)
}

// LastSuccess returns the time of the most recent successful call.
func (r *Recorder) LastSuccess() (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.succeeded) == 0 {
		return time.Time{}, false
	}
	return r.succeeded[len(r.succeeded)-1], true
}

func (r *Recorder) trace(direction, data string) {
	if len(r.debug) == debugBufferSize {
		copy(r.debug, r.debug[1:])
		r.debug = r.debug[:debugBufferSize-1]
	}
	r.debug = append(r.debug, DebugEntry{
		At:        r.now(),
		Direction: direction,
		Data:      data,
	})
}

func appendBounded(list []time.Time, t time.Time) []time.Time {
	if len(list) >= statsRetention {
		list = append(list[:0], list[len(list)-statsRetention+1:]...)
	}
	return append(list, t)
}

// formatFields renders fields deterministically; byte values as hex.
func formatFields(f Fields) string {
	if len(f) == 0 {
		return "{}"
	}

	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		switch v := f[k].(type) {
		case []byte:
			parts = append(parts, fmt.Sprintf("%s=%x", k, v))
		default:
			parts = append(parts, fmt.Sprintf("%s=%v", k, v))
		}
	}
	return "{" + strings.Join(parts, " ") + "}"
}
