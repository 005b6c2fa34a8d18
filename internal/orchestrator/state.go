package orchestrator

// State is the turn orchestration state.
type State int

const (
	StateIdle State = iota
	StateRequestingText
	StateRequestingImage
	// StateFailed is transient: it is entered on a failed call and left for
	// StateIdle before Advance returns.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequestingText:
		return "requesting_text"
	case StateRequestingImage:
		return "requesting_image"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Pending reports whether an advance is in flight.
func (s State) Pending() bool {
	return s == StateRequestingText || s == StateRequestingImage
}
