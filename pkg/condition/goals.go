package condition

import (
	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/machine"
)

// Goal is something a planner can steer towards: entering a State or walking a Transition.
// Exactly one of the two fields is set.
type Goal struct {
	State      *domain.State
	Transition *domain.Transition
}

func (g Goal) String() string {
	if g.Transition != nil {
		return "edge " + g.Transition.ID
	}
	return "state " + g.State.ID
}

// Targeted is implemented by conditions that know which goals remain unmet.
type Targeted interface {
	Goals() []Goal
}

func (c *EdgeCoverage) Goals() []Goal {
	return edgeGoals(c.m.Coverage().UnvisitedEdges())
}

func (c *StateCoverage) Goals() []Goal {
	var goals []Goal
	for _, s := range c.m.Coverage().UnvisitedStates() {
		goals = append(goals, Goal{State: s})
	}
	return goals
}

func (c *ReachedEdge) Goals() []Goal {
	if c.Fulfilled() {
		return nil
	}
	return edgeGoals(c.targets)
}

func (c *ReachedState) Goals() []Goal {
	if c.Fulfilled() || c.state == nil {
		return nil
	}
	return []Goal{{State: c.state}}
}

func edgeGoals(edges []*domain.Transition) []Goal {
	goals := make([]Goal, 0, len(edges))
	for _, t := range edges {
		goals = append(goals, Goal{Transition: t})
	}
	return goals
}

// GoalsOf returns the unmet goals of c. Conditions that do not target anything
// (length, duration) steer towards the transitions not yet walked. A Combination
// contributes the goals of its unfulfilled members, without duplicates.
func GoalsOf(c StopCondition, m machine.Machine) []Goal {
	switch c := c.(type) {
	case Targeted:
		return c.Goals()
	case *Combination:
		var goals []Goal
		seen := make(map[Goal]bool)
		for _, sub := range c.conditions {
			if sub.Fulfilled() {
				continue
			}
			for _, g := range GoalsOf(sub, m) {
				if !seen[g] {
					seen[g] = true
					goals = append(goals, g)
				}
			}
		}
		return goals
	default:
		return edgeGoals(m.Coverage().UnvisitedEdges())
	}
}
