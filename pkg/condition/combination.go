package condition

import "slices"

// Combination is fulfilled as soon as any of its conditions is.
// Its fulfillment is the best fulfillment among them.
type Combination struct {
	conditions []StopCondition
}

// NewCombination groups conditions in the given order.
func NewCombination(conditions ...StopCondition) *Combination {
	return &Combination{conditions: conditions}
}

// Add appends a condition.
func (c *Combination) Add(condition StopCondition) {
	c.conditions = append(c.conditions, condition)
}

// Conditions returns the grouped conditions in order.
func (c *Combination) Conditions() []StopCondition {
	return c.conditions
}

func (c *Combination) Fulfilled() bool {
	for _, sub := range c.conditions {
		if sub.Fulfilled() {
			return true
		}
	}
	return false
}

func (c *Combination) Fulfillment() float64 {
	best := 0.0
	for _, sub := range c.conditions {
		if f := sub.Fulfillment(); f > best {
			best = f
		}
	}
	return best
}

// Fold adds next to an existing condition. The first condition is kept as is,
// the second wraps both in a Combination, and later ones extend a copy of that
// Combination. existing is never modified.
func Fold(existing, next StopCondition) StopCondition {
	switch c := existing.(type) {
	case nil:
		return next
	case *Combination:
		return NewCombination(append(slices.Clone(c.conditions), next)...)
	default:
		return NewCombination(existing, next)
	}
}
