package condition

import (
	"math"
	"time"

	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/machine"
)

// StopCondition decides when a generator has produced enough steps.
type StopCondition interface {
	Fulfilled() bool
	// Fulfillment is the progress towards the condition, in [0, 1].
	Fulfillment() float64
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// EdgeCoverage is fulfilled once the given fraction of transitions has been walked.
type EdgeCoverage struct {
	m      machine.Machine
	target float64
}

func NewEdgeCoverage(m machine.Machine, target float64) *EdgeCoverage {
	return &EdgeCoverage{m: m, target: target}
}

func (c *EdgeCoverage) Fulfilled() bool {
	return c.m.Coverage().EdgeRatio() >= c.target
}

func (c *EdgeCoverage) Fulfillment() float64 {
	if c.target <= 0 {
		return 1
	}
	return clamp(c.m.Coverage().EdgeRatio() / c.target)
}

// StateCoverage is fulfilled once the given fraction of states has been entered.
type StateCoverage struct {
	m      machine.Machine
	target float64
}

func NewStateCoverage(m machine.Machine, target float64) *StateCoverage {
	return &StateCoverage{m: m, target: target}
}

func (c *StateCoverage) Fulfilled() bool {
	return c.m.Coverage().StateRatio() >= c.target
}

func (c *StateCoverage) Fulfillment() float64 {
	if c.target <= 0 {
		return 1
	}
	return clamp(c.m.Coverage().StateRatio() / c.target)
}

// ReachedEdge is fulfilled once any transition carrying the label has been walked.
type ReachedEdge struct {
	m       machine.Machine
	label   string
	targets []*domain.Transition
}

func NewReachedEdge(m machine.Machine, label string) *ReachedEdge {
	return &ReachedEdge{m: m, label: label, targets: m.Model().TransitionsLabeled(label)}
}

func (c *ReachedEdge) Fulfilled() bool {
	for _, t := range c.targets {
		if c.m.Coverage().EdgeVisits(t) > 0 {
			return true
		}
	}
	return false
}

func (c *ReachedEdge) Fulfillment() float64 {
	if c.Fulfilled() {
		return 1
	}
	return 0
}

// ReachedState is fulfilled once the named state has been entered.
type ReachedState struct {
	m      machine.Machine
	state  *domain.State
	target string
}

func NewReachedState(m machine.Machine, id string) *ReachedState {
	return &ReachedState{m: m, state: m.Model().State(id), target: id}
}

func (c *ReachedState) Fulfilled() bool {
	return c.state != nil && c.m.Coverage().StateVisits(c.state) > 0
}

func (c *ReachedState) Fulfillment() float64 {
	if c.Fulfilled() {
		return 1
	}
	return 0
}

// TestCaseLength is fulfilled once the given number of steps has been walked.
type TestCaseLength struct {
	m     machine.Machine
	steps int
}

func NewTestCaseLength(m machine.Machine, steps int) *TestCaseLength {
	return &TestCaseLength{m: m, steps: steps}
}

func (c *TestCaseLength) Fulfilled() bool {
	return c.m.Coverage().Steps() >= c.steps
}

func (c *TestCaseLength) Fulfillment() float64 {
	if c.steps <= 0 {
		return 1
	}
	return clamp(float64(c.m.Coverage().Steps()) / float64(c.steps))
}

// TimeDuration is fulfilled once the given duration has elapsed since its creation.
// It is only consulted between steps.
type TimeDuration struct {
	start    time.Time
	duration time.Duration
	now      func() time.Time
}

// NewTimeDuration starts the clock immediately.
func NewTimeDuration(d time.Duration) *TimeDuration {
	return NewTimeDurationWithClock(d, time.Now)
}

// NewTimeDurationWithClock is NewTimeDuration with an injectable clock.
func NewTimeDurationWithClock(d time.Duration, now func() time.Time) *TimeDuration {
	return &TimeDuration{start: now(), duration: d, now: now}
}

func (c *TimeDuration) Fulfilled() bool {
	return c.now().Sub(c.start) >= c.duration
}

func (c *TimeDuration) Fulfillment() float64 {
	if c.duration <= 0 {
		return 1
	}
	return clamp(float64(c.now().Sub(c.start)) / float64(c.duration))
}
