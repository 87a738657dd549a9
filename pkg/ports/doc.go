/*
Package ports defines the driven ports (interfaces) of Surligne.

These interfaces decouple the editor and the hosts from concrete implementations,
so the same editor can notify a log, a Redis channel or an SSE stream, and load its
starting configuration from a file or from code.

# Key Interfaces

  - Notifier: receives (keyword, shape, color) triples whenever a zone's color or shape changes.
  - ConfigSource: provides the starting configuration of an editor.
  - Highlighter: the engine contract consumed by adapters (HTTP, MCP, CLI).
*/
package ports
