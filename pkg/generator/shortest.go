package generator

import (
	"github.com/aretw0/mbt/pkg/condition"
	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/machine"
)

// maxInvalidations is how many times a goal's plan may be broken by a closed
// guard before the goal is dropped.
const maxInvalidations = 3

// ShortestPath steers the machine along fewest-transition routes towards the unmet
// goals of its stop condition.
type ShortestPath struct {
	walker
	outgoing map[*domain.State][]*domain.Transition

	plan []*domain.Transition
	goal condition.Goal

	invalidations map[condition.Goal]int
	dropped       map[condition.Goal]bool
	unreachable   map[condition.Goal]bool
}

// NewShortestPath creates a shortest-path generator over m, bounded by stop.
func NewShortestPath(m machine.Machine, stop condition.StopCondition, opts ...Option) *ShortestPath {
	g := &ShortestPath{
		walker:        newWalker(m, stop, opts),
		outgoing:      make(map[*domain.State][]*domain.Transition),
		invalidations: make(map[condition.Goal]int),
		dropped:       make(map[condition.Goal]bool),
		unreachable:   make(map[condition.Goal]bool),
	}
	for _, t := range m.Model().Transitions {
		g.outgoing[t.Source] = append(g.outgoing[t.Source], t)
	}
	return g
}

// Plan returns the transitions still queued, the next one first.
func (g *ShortestPath) Plan() []*domain.Transition {
	return append([]*domain.Transition(nil), g.plan...)
}

// Next walks the next transition of the current plan, replanning first if needed.
func (g *ShortestPath) Next() (domain.Step, error) {
	if !g.HasNext() {
		return domain.Step{}, ErrExhausted
	}
	edges, backtracked, err := g.accessible()
	if err != nil {
		return domain.Step{}, err
	}

	if backtracked {
		g.Backtracked()
	}
	if len(g.plan) > 0 {
		switch {
		case g.satisfied(g.goal):
			g.cfg.logger.Debug("goal met before the plan completed", "goal", g.goal.String())
			g.reset()
		case !contains(edges, g.plan[0]):
			g.invalidations[g.goal]++
			if g.invalidations[g.goal] >= maxInvalidations {
				g.dropped[g.goal] = true
				g.cfg.logger.Debug("dropping goal", "goal", g.goal.String())
			}
			g.reset()
		}
	}
	if len(g.plan) == 0 {
		g.replan(edges)
	}

	var next *domain.Transition
	if len(g.plan) > 0 {
		next, g.plan = g.plan[0], g.plan[1:]
	} else {
		next = g.leastVisited(edges)
	}
	return g.walk(next)
}

// Backtracked drops the plan after the harness undid a step. The goal keeps its
// invalidation count since no guard closed.
func (g *ShortestPath) Backtracked() {
	g.reset()
	clear(g.unreachable)
}

func (g *ShortestPath) reset() {
	g.plan = nil
	g.goal = condition.Goal{}
}

func (g *ShortestPath) satisfied(goal condition.Goal) bool {
	cov := g.m.Coverage()
	if goal.Transition != nil {
		return cov.EdgeVisits(goal.Transition) > 0
	}
	return cov.StateVisits(goal.State) > 0
}

// replan searches breadth-first from the current State. The first hop is restricted
// to the accessible transitions; deeper hops follow the model's structure because
// guards cannot be evaluated ahead of the actions that precede them.
func (g *ShortestPath) replan(first []*domain.Transition) {
	g.m.SetPlanning(true)
	defer g.m.SetPlanning(false)

	var goals []condition.Goal
	for _, goal := range condition.GoalsOf(g.stop, g.m) {
		if !g.dropped[goal] && !g.unreachable[goal] && !g.satisfied(goal) {
			goals = append(goals, goal)
		}
	}
	if len(goals) == 0 {
		return
	}

	start := g.m.CurrentState()
	// A goal missed behind a closed guard may still be reachable later.
	restricted := len(first) < len(g.outgoing[start])
	via := map[*domain.State]*domain.Transition{start: nil}
	queue := []*domain.State{}
	for _, t := range first {
		if _, seen := via[t.Target]; !seen {
			via[t.Target] = t
			queue = append(queue, t.Target)
		}
	}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, t := range g.outgoing[s] {
			if _, seen := via[t.Target]; !seen {
				via[t.Target] = t
				queue = append(queue, t.Target)
			}
		}
	}

	route := func(s *domain.State) []*domain.Transition {
		var path []*domain.Transition
		for t := via[s]; t != nil; t = via[t.Source] {
			path = append([]*domain.Transition{t}, path...)
		}
		return path
	}

	var best []*domain.Transition
	var bestGoal condition.Goal
	for _, goal := range goals {
		var path []*domain.Transition
		if goal.Transition != nil {
			src := goal.Transition.Source
			if _, ok := via[src]; !ok {
				if !restricted {
					g.unreachable[goal] = true
				}
				continue
			}
			if src == start && !contains(first, goal.Transition) {
				continue
			}
			path = append(route(src), goal.Transition)
		} else {
			if _, ok := via[goal.State]; !ok {
				if !restricted {
					g.unreachable[goal] = true
				}
				continue
			}
			path = route(goal.State)
		}
		if best == nil || len(path) < len(best) {
			best, bestGoal = path, goal
		}
	}

	if best != nil {
		g.plan, g.goal = best, bestGoal
		g.cfg.logger.Debug("planned", "goal", bestGoal.String(), "length", len(best))
	}
}

// leastVisited picks the accessible transition walked the fewest times, first in model order on ties.
func (g *ShortestPath) leastVisited(edges []*domain.Transition) *domain.Transition {
	cov := g.m.Coverage()
	best := edges[0]
	for _, t := range edges[1:] {
		if cov.EdgeVisits(t) < cov.EdgeVisits(best) {
			best = t
		}
	}
	return best
}

func contains(edges []*domain.Transition, t *domain.Transition) bool {
	for _, e := range edges {
		if e == t {
			return true
		}
	}
	return false
}
