package ports

import "io"

// Snapshot is an opaque, independent copy of an Environment's data space.
// Only the Environment that produced it knows how to restore it.
type Snapshot any

// Environment is a scripting context holding the data space of an extended machine.
//
// A Snapshot must be independent of later mutations: restoring it brings the
// data space back to exactly the bindings it held when taken.
type Environment interface {
	// Exec runs a script (a guard action or an init block) for its side effects.
	Exec(script string) error

	// Eval evaluates an expression and returns its value rendered as a string.
	Eval(expr string) (string, error)

	// Test evaluates an expression as a boolean (used for guards).
	Test(expr string) (bool, error)

	// Bindings returns the user-visible variables of the data space rendered as strings.
	Bindings() map[string]string

	// Lookup returns the rendered value of a single variable.
	Lookup(name string) (string, bool)

	Snapshot() Snapshot
	Restore(s Snapshot) error

	// SetOutput redirects the scripts' textual output and returns the previous sink.
	SetOutput(w io.Writer) io.Writer
}
