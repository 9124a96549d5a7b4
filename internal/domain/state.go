package domain

import "fmt"

// RunState is the lifecycle position of a task run.
type RunState string

const (
	StateConfigured RunState = "configured"
	StateRunning    RunState = "running"
	StateAggregated RunState = "aggregated"
	StateReported   RunState = "reported"
	StateCompleted  RunState = "completed"
	StateFailed     RunState = "failed"
)

// IsTerminal reports whether no further transition is possible.
func (s RunState) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Transition validates a move from one state to the next. Every
// non-terminal state may fail; otherwise states advance strictly in order.
func Transition(from, to RunState) error {
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

func isAllowedTransition(from, to RunState) bool {
	if to == StateFailed {
		return !from.IsTerminal()
	}
	switch from {
	case StateConfigured:
		return to == StateRunning
	case StateRunning:
		return to == StateAggregated
	case StateAggregated:
		return to == StateReported
	case StateReported:
		return to == StateCompleted
	default:
		return false
	}
}
