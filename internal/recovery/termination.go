// internal/recovery/termination.go
package recovery

import (
	"fmt"
	"time"
)

// Termination is returned by Monitor.Check when the process must exit so
// the supervisor starts a fresh instance. The caller waits Grace first.
type Termination struct {
	Action Action
	Reason string
	Grace  time.Duration
}

func (t *Termination) Error() string {
	return fmt.Sprintf("recovery: %s requested (%s), exit after %s", t.Action, t.Reason, t.Grace)
}
