package domain

import (
	"errors"
	"fmt"
)

// ErrDeadEnd is returned when the current state offers no transition to walk.
var ErrDeadEnd = errors.New("no edge found")

// ErrNoAccessibleEdge is returned when every outgoing transition was filtered out by its guard.
// It wraps ErrDeadEnd so callers can treat both dead ends alike.
var ErrNoAccessibleEdge = fmt.Errorf("%w: no accessible edge", ErrDeadEnd)

// ErrMalformedAction is returned when an action script fails to evaluate. It is fatal.
var ErrMalformedAction = errors.New("malformed action")

// ErrMalformedGuard is returned when a guard expression fails to evaluate. It is fatal.
var ErrMalformedGuard = errors.New("malformed guard")

// ErrInvalidData is returned when a data lookup or expression cannot be resolved.
// Callers may treat it as "not applicable".
var ErrInvalidData = errors.New("invalid data")

// ErrIllegalWalk is returned when a transition is walked from a state that is not its source.
var ErrIllegalWalk = errors.New("illegal walk")

// ErrBacktrack is returned when backtracking is disabled or there is nothing to undo.
var ErrBacktrack = errors.New("cannot backtrack")

// ErrUnsupportedCondition is returned for an unknown or malformed stop condition configuration.
var ErrUnsupportedCondition = errors.New("unsupported stop condition")

// ErrUnsupportedGenerator is returned for an unknown or incomplete path generator configuration.
var ErrUnsupportedGenerator = errors.New("unsupported generator")

// ErrModelInvalid is returned when a model fails structural validation.
var ErrModelInvalid = errors.New("invalid model")

// ErrRunNotFound is returned when a recorded run cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")

// ScriptError describes a guard, action or expression that did not evaluate.
type ScriptError struct {
	// Kind is one of ErrMalformedAction, ErrMalformedGuard or ErrInvalidData.
	Kind error
	// Transition is the ID of the transition owning the script, if any.
	Transition string
	Script     string
	Cause      error
}

func (e *ScriptError) Error() string {
	if e.Transition != "" {
		return fmt.Sprintf("%v in '%s': %q: %v", e.Kind, e.Transition, e.Script, e.Cause)
	}
	return fmt.Sprintf("%v: %q: %v", e.Kind, e.Script, e.Cause)
}

func (e *ScriptError) Unwrap() []error {
	return []error{e.Kind, e.Cause}
}
