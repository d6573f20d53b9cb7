/*
Package ports defines the driven ports (interfaces) of the mbt generator.

These interfaces decouple the traversal core from external implementations, allowing
the machine to work with various scripting engines, model sources and run stores.

# Key Interfaces

  - Environment: The evaluation environment holding the data space of an extended machine.
  - ModelLoader: Responsible for loading a Model (e.g., from a YAML file or memory).
  - RunStore: Responsible for persisting recorded runs (memory, Redis, SQLite).
  - Engine: The driving surface used by the HTTP and MCP adapters.
*/
package ports
