/*
Package domain contains the core domain models of the mbt generator.

It defines the graph a test sequence is generated from and the values the
generator produces. This package is kept pure and free of external dependencies
like I/O, scripting or persistence.

# Key Entities

  - State: A vertex of the model (a mode of the system under test).
  - Transition: A directed edge between two States, optionally guarded and carrying an action script.
  - Model: The States and Transitions plus the designated initial State.
  - Step: One emitted element of a generated test sequence.
  - Run: A recorded sequence of Steps together with its coverage statistics.
*/
package domain
