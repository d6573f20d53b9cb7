package machine

import "github.com/aretw0/mbt/pkg/domain"

// Coverage holds the visit counters of one walk over a model.
// Counters only ever grow.
type Coverage struct {
	model  *domain.Model
	edges  map[*domain.Transition]int
	states map[*domain.State]int
	steps  int
}

func newCoverage(model *domain.Model) *Coverage {
	return &Coverage{
		model:  model,
		edges:  make(map[*domain.Transition]int, len(model.Transitions)),
		states: make(map[*domain.State]int, len(model.States)),
	}
}

func (c *Coverage) visit(t *domain.Transition) {
	c.edges[t]++
	c.states[t.Target]++
	c.steps++
}

// EdgeVisits returns how many times t has been walked.
func (c *Coverage) EdgeVisits(t *domain.Transition) int { return c.edges[t] }

// StateVisits returns how many times s has been entered. The initial State starts at one.
func (c *Coverage) StateVisits(s *domain.State) int { return c.states[s] }

// Steps returns the number of walks, including walks later undone by backtracking.
func (c *Coverage) Steps() int { return c.steps }

func (c *Coverage) TotalEdges() int  { return len(c.model.Transitions) }
func (c *Coverage) TotalStates() int { return len(c.model.States) }

// VisitedEdges counts distinct transitions walked at least once.
func (c *Coverage) VisitedEdges() int {
	n := 0
	for _, t := range c.model.Transitions {
		if c.edges[t] > 0 {
			n++
		}
	}
	return n
}

// VisitedStates counts distinct states entered at least once.
func (c *Coverage) VisitedStates() int {
	n := 0
	for _, s := range c.model.States {
		if c.states[s] > 0 {
			n++
		}
	}
	return n
}

// EdgeRatio is the fraction of transitions walked. A model without transitions is fully covered.
func (c *Coverage) EdgeRatio() float64 {
	return ratio(c.VisitedEdges(), c.TotalEdges())
}

// StateRatio is the fraction of states entered.
func (c *Coverage) StateRatio() float64 {
	return ratio(c.VisitedStates(), c.TotalStates())
}

// UnvisitedEdges returns the transitions never walked, in model order.
func (c *Coverage) UnvisitedEdges() []*domain.Transition {
	var out []*domain.Transition
	for _, t := range c.model.Transitions {
		if c.edges[t] == 0 {
			out = append(out, t)
		}
	}
	return out
}

// UnvisitedStates returns the states never entered, in model order.
func (c *Coverage) UnvisitedStates() []*domain.State {
	var out []*domain.State
	for _, s := range c.model.States {
		if c.states[s] == 0 {
			out = append(out, s)
		}
	}
	return out
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 1
	}
	return float64(n) / float64(total)
}
