package machine

import (
	"fmt"
	"strings"
)

func percent(n, total int) int {
	if total == 0 {
		return 100
	}
	return n * 100 / total
}

// Statistics returns the coverage summary, one figure per line.
func (m *FSM) Statistics() string {
	c := m.coverage
	var b strings.Builder
	fmt.Fprintf(&b, "Coverage Edges: %d/%d => %d%%\n", c.VisitedEdges(), c.TotalEdges(), percent(c.VisitedEdges(), c.TotalEdges()))
	fmt.Fprintf(&b, "Coverage States: %d/%d => %d%%\n", c.VisitedStates(), c.TotalStates(), percent(c.VisitedStates(), c.TotalStates()))
	fmt.Fprintf(&b, "Unvisited Edges: %d\n", c.TotalEdges()-c.VisitedEdges())
	fmt.Fprintf(&b, "Unvisited States: %d\n", c.TotalStates()-c.VisitedStates())
	fmt.Fprintf(&b, "Test sequence length: %d", c.Steps())
	return b.String()
}

// StatisticsCompact returns the coverage summary on a single line.
func (m *FSM) StatisticsCompact() string {
	c := m.coverage
	return fmt.Sprintf("E:%d/%d S:%d/%d L:%d",
		c.VisitedEdges(), c.TotalEdges(), c.VisitedStates(), c.TotalStates(), c.Steps())
}

// StatisticsVerbose extends Statistics with the unvisited transitions and states, in model order.
func (m *FSM) StatisticsVerbose() string {
	var b strings.Builder
	b.WriteString(m.Statistics())
	if edges := m.coverage.UnvisitedEdges(); len(edges) > 0 {
		b.WriteString("\nUnvisited Edges:")
		for _, t := range edges {
			b.WriteString("\n  " + t.String())
		}
	}
	if states := m.coverage.UnvisitedStates(); len(states) > 0 {
		b.WriteString("\nUnvisited States:")
		for _, s := range states {
			b.WriteString("\n  " + s.ID)
		}
	}
	return b.String()
}
