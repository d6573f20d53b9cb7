/*
Package machine implements the traversal core: a finite-state machine walking a
domain.Model, and its extended variant carrying a scripted data space.

# Finite-State Machine

An FSM tracks the current State, counts visits per State and Transition, and
optionally records a history of walked Transitions so they can be undone:

	fsm := machine.NewFSM(model)
	fsm.EnableBacktrack(true)
	edges, _ := fsm.OutgoingTransitions()
	_ = fsm.WalkEdge(edges[0])
	_ = fsm.Backtrack() // back at the initial State

Visit counters are monotonic. Backtracking restores the position, not the coverage.

# Extended Finite-State Machine

An EFSM gates Transitions behind guard expressions and runs action scripts against a
ports.Environment. Every recorded walk snapshots the data space so that Backtrack
restores both the State and the data exactly as they were.
*/
package machine
