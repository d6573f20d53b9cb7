package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventStep      EventType = "step"
	EventBacktrack EventType = "backtrack"
	EventDeadEnd   EventType = "dead_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// StepEvent is emitted after a transition has been walked by a generator.
type StepEvent struct {
	EventBase
	Index         int     `json:"index"`
	Step          Step    `json:"step"`
	EdgeCoverage  float64 `json:"edge_coverage"`
	StateCoverage float64 `json:"state_coverage"`
}

// BacktrackEvent is emitted after the most recent walk has been undone.
type BacktrackEvent struct {
	EventBase
	// State is the extended label of the state returned to.
	State string `json:"state"`
}

// DeadEndEvent is emitted when the current state has no accessible transition.
type DeadEndEvent struct {
	EventBase
	State string `json:"state"`
}

// Hooks defines callbacks for generation observability.
// Any of them may be nil.
type Hooks struct {
	OnStep      func(*StepEvent)
	OnBacktrack func(*BacktrackEvent)
	OnDeadEnd   func(*DeadEndEvent)
}

// ChainHooks returns Hooks invoking every given set in order.
func ChainHooks(all ...Hooks) Hooks {
	return Hooks{
		OnStep: func(e *StepEvent) {
			for _, h := range all {
				if h.OnStep != nil {
					h.OnStep(e)
				}
			}
		},
		OnBacktrack: func(e *BacktrackEvent) {
			for _, h := range all {
				if h.OnBacktrack != nil {
					h.OnBacktrack(e)
				}
			}
		},
		OnDeadEnd: func(e *DeadEndEvent) {
			for _, h := range all {
				if h.OnDeadEnd != nil {
					h.OnDeadEnd(e)
				}
			}
		},
	}
}
