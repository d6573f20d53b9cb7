/*
Package runner implements the offline generation loop.

It drives an engine until its stop conditions are fulfilled, emits each step
through a pluggable Handler and optionally records the whole run in a
ports.RunStore.

# Key Components

  - Runner: the loop. It checks its context between steps only.
  - Handler: decouples how steps are presented (TextHandler, JSONHandler).
  - SignalManager: cancels the loop context on SIGINT/SIGTERM.

# Usage

	signals := runner.NewSignalManager()
	defer signals.Stop()

	r := runner.NewRunner(runner.WithHandler(runner.NewTextHandler(os.Stdout)))
	run, err := r.Run(signals.Context(), engine)
*/
package runner
