// internal/recovery/snapshot.go
package recovery

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tamzrod/master-gateway/internal/master"
)

const snapshotType = "communication_recovery"

// DebugSnapshot is the on-disk document captured before every escalation.
type DebugSnapshot struct {
	Type string    `json:"type"`
	Data DebugData `json:"data"`
}

type DebugData struct {
	Buffer []master.DebugEntry `json:"buffer"`
	Calls  DebugCalls          `json:"calls"`
	Action string              `json:"action"`
}

// DebugCalls holds call timestamps as unix seconds.
type DebugCalls struct {
	TimedOut  []float64 `json:"timedout"`
	Succeeded []float64 `json:"succeeded"`
}

// NewDebugSnapshot builds a snapshot of the link's recent traffic.
func NewDebugSnapshot(link master.Link, stats master.CommunicationStats, action Action) DebugSnapshot {
	buf := link.DebugBuffer()
	if buf == nil {
		buf = []master.DebugEntry{}
	}
	return DebugSnapshot{
		Type: snapshotType,
		Data: DebugData{
			Buffer: buf,
			Calls: DebugCalls{
				TimedOut:  unixList(stats.TimedOut),
				Succeeded: unixList(stats.Succeeded),
			},
			Action: action.String(),
		},
	}
}

// SnapshotStore writes debug snapshots to a directory and keeps only the
// newest Retain files.
type SnapshotStore struct {
	Dir    string
	Retain int
}

// Save writes snap as debug_<unix>.json and prunes older files.
func (s *SnapshotStore) Save(snap DebugSnapshot, at time.Time) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("recovery: snapshot dir %s: %w", s.Dir, err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("recovery: encode snapshot: %w", err)
	}

	path := filepath.Join(s.Dir, fmt.Sprintf("debug_%d.json", at.Unix()))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("recovery: write snapshot: %w", err)
	}

	if err := s.prune(); err != nil {
		return path, err
	}
	return path, nil
}

// List returns snapshot file paths, oldest first.
func (s *SnapshotStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("recovery: list snapshots: %w", err)
	}

	type file struct {
		name string
		ts   int64
	}
	var files []file
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ts, ok := snapshotTime(e.Name())
		if !ok {
			continue
		}
		files = append(files, file{name: e.Name(), ts: ts})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].ts != files[j].ts {
			return files[i].ts < files[j].ts
		}
		return files[i].name < files[j].name
	})

	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.Join(s.Dir, f.name)
	}
	return out, nil
}

func (s *SnapshotStore) prune() error {
	if s.Retain <= 0 {
		return nil
	}
	files, err := s.List()
	if err != nil {
		return err
	}

	var errs []string
	for len(files) > s.Retain {
		if err := os.Remove(files[0]); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err.Error())
		}
		files = files[1:]
	}
	if len(errs) > 0 {
		return fmt.Errorf("recovery: prune snapshots: %s", strings.Join(errs, " | "))
	}
	return nil
}

func snapshotTime(name string) (int64, bool) {
	if !strings.HasPrefix(name, "debug_") || !strings.HasSuffix(name, ".json") {
		return 0, false
	}
	ts, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(name, "debug_"), ".json"), 10, 64)
	if err != nil {
		return 0, false
	}
	return ts, true
}

func unixList(ts []time.Time) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = toUnix(t)
	}
	return out
}
