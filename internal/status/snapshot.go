// internal/status/snapshot.go
package status

import "time"

// Snapshot is the outcome of one link health evaluation.
// It contains no logic and no memory of the past.
type Snapshot struct {
	At       time.Time
	Health   uint16
	Calls    int
	Timeouts int
	Ratio    float64 // failure ratio inside the evaluation window
	Action   string  // recovery action taken, "" for none
}
