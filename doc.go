/*
Package mbt is a model-based testing engine: it walks a state machine model of the
system under test and turns the walk into a test sequence.

A model is a directed multigraph of states and labelled transitions. Plain models are
walked as a finite state machine. Extended models attach guards and actions (small Lua
scripts) to transitions, evaluated against a data space that is snapshotted before every
action so that a step can be undone.

# Concept

The engine separates three concerns:

  - The machine (pkg/machine) knows where the walk is, which transitions are accessible
    and which parts of the model have been covered.
  - Stop conditions (pkg/condition) measure progress: edge or state coverage, a reached
    state or transition, a length or a duration.
  - Generators (pkg/generator) choose the next transition until the stop conditions hold:
    uniformly at random, or along the shortest path to the nearest unmet goal.

When the walk reaches a dead end the generator can backtrack, restoring both the
position and the data space. A test harness does the same through Engine.Backtrack when
the system under test refuses a step.

# Usage

Build a model (with pkg/dsl or a YAML file through pkg/adapters/file), add at least one
stop condition, pick a generator and pull steps:

	model, err := file.New("login.yaml").Load(ctx)
	if err != nil {
		log.Fatal(err)
	}

	engine, err := mbt.New(model, mbt.WithBacktrack(true), mbt.WithSeed(42))
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	if err := engine.AddCondition(condition.KindEdgeCoverage, "100"); err != nil {
		log.Fatal(err)
	}
	if err := engine.SetGenerator(generator.KindRandom); err != nil {
		log.Fatal(err)
	}

	for engine.HasNextStep() {
		step, err := engine.NextStep()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(step.Label)
	}
	fmt.Println(engine.Statistics())

The mbt command (cmd/mbt) wraps the same engine for offline generation, an online HTTP
session and an MCP server.
*/
package mbt
