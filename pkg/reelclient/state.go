package reelclient

// State is where a mutation ended up.
type State int

const (
	// Idle means the guard made the mutation a no-op.
	Idle State = iota
	OptimisticallyApplied
	SettledSuccess
	SettledRollback
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case OptimisticallyApplied:
		return "optimistically_applied"
	case SettledSuccess:
		return "settled_success"
	case SettledRollback:
		return "settled_rollback"
	default:
		return "unknown"
	}
}

// Outcome reports one mutation.
type Outcome struct {
	State State
	// Video is the cached video after settlement.
	Video Video
	// RefreshErr is set when the closing re-fetch failed. The mutation's
	// own result is unaffected.
	RefreshErr error
}
