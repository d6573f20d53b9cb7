package generator

import (
	"github.com/aretw0/mbt/pkg/condition"
	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/machine"
)

// Random walks a uniformly chosen accessible transition at each step.
type Random struct {
	walker
}

// NewRandom creates a random generator over m, bounded by stop.
func NewRandom(m machine.Machine, stop condition.StopCondition, opts ...Option) *Random {
	return &Random{walker: newWalker(m, stop, opts)}
}

// Next walks one random accessible transition.
func (g *Random) Next() (domain.Step, error) {
	if !g.HasNext() {
		return domain.Step{}, ErrExhausted
	}
	edges, _, err := g.accessible()
	if err != nil {
		return domain.Step{}, err
	}
	return g.walk(edges[g.cfg.rng.IntN(len(edges))])
}
