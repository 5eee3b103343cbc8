/*
Package domain contains the core domain models of the mathpad structural editor.

It defines the expression tree edited by the automaton, the edit modes, and the
snapshots handed to renderers and transports. This package is kept pure and free
of external dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - Node: One element of the expression (Text, Fraction, Superscript, Sqrt, Abs, Function).
  - Expression: The ordered sequence of nodes, serialized to linear text for evaluation.
  - Mode / EditState: Which field of which node is currently receiving characters.
  - Document: The persisted state of a session (Expression + EditState).
  - Snapshot: A read-only view of a Document taken after every mutation.
*/
package domain
