package soaper

import "fmt"

// State identifies a lifecycle phase of a [Server]. A server starts in
// [StateNew], moves through [StateStarting] to [StateRunning], and back
// through [StateStopping] to [StateStopped]. A failed start leaves it
// in [StateFailed].
type State int32

const (
	StateNew State = iota
	StateStarting
	StateRunning
	StateStopping
	StateStopped
	StateFailed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateStarting:
		return "STARTING"
	case StateRunning:
		return "RUNNING"
	case StateStopping:
		return "STOPPING"
	case StateStopped:
		return "STOPPED"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}
