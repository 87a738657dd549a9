/*
Package domain contains the core model of the Surligne highlighter.

It defines zones, keywords and the configuration that groups them, together with the
rules that keep a configuration consistent. This package is kept pure and free of
I/O, following Hexagonal Architecture principles: hosts (CLI, HTTP, MCP) own a
Configuration value and hand snapshots of it to the highlight engine.

# Key Entities

  - Zone: a named category of keywords sharing a display color and a diagram shape.
  - Configuration: the ordered set of zones. Zone order is the tie-break for keywords of equal length.
  - SettingsChange: the notification sent to a diagram view when a zone's color or shape changes.
  - ValidationError: returned by mutations that would break the keyword uniqueness invariant.

Mutations on Configuration are value methods: they return an updated copy and leave the
receiver untouched, so a rejected mutation never leaves a half-applied configuration behind.
*/
package domain
