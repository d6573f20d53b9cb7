/*
Package generator drives a machine forward one transition at a time until a stop
condition is fulfilled.

Two strategies are available:

  - Random picks uniformly among the accessible transitions.
  - ShortestPath plans the fewest-transition route to the nearest unmet goal of the
    stop condition and follows it, replanning whenever the data space closes a planned
    transition or the goal is met on the way.

Generators are pulled by the caller:

	for gen.HasNext() {
		step, err := gen.Next()
		if err != nil {
			return err
		}
		fmt.Println(step.Label)
	}

A generator is not restartable. Once HasNext reports false, build a new one.
*/
package generator
