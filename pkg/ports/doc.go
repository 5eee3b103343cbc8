/*
Package ports defines the driven ports (interfaces) of the mathpad editor.

These interfaces decouple the edit automaton from external collaborators, allowing
hosts to plug in storage backends, evaluators, renderers and snippet sources.

# Key Interfaces

  - DocumentStore: Persists and loads the Document of a session.
  - DistributedLocker: Provides distributed locking for concurrent session access.
  - Evaluator: Turns linear text into a numeric or symbolic Result.
  - Renderer: Draws a Snapshot for a specific host.
  - SnippetSource: Supplies the palette of ready-made inserts.
*/
package ports
