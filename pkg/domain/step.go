package domain

import "time"

// Step is one element of a generated test sequence.
type Step struct {
	// Label is the label of the walked transition.
	Label        string `json:"label"`
	TransitionID string `json:"transition_id"`
	Source       string `json:"source"`
	Target       string `json:"target"`

	// State is the extended state label reached by the step: the target
	// state ID followed by the serialized data space, if any.
	State string `json:"state"`

	// Data is a copy of the data space after the step (extended machines only).
	Data map[string]string `json:"data,omitempty"`
}

// Run is a recorded generation: the emitted steps and the final statistics.
type Run struct {
	ID         string    `json:"id"`
	Model      string    `json:"model"`
	Generator  string    `json:"generator"`
	Steps      []Step    `json:"steps"`
	Statistics string    `json:"statistics"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
