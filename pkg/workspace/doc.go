/*
Package workspace manages isolated (configuration, text) pairs for server hosts.

Each workspace owns an editor.Editor and the text currently being edited. Accepted
mutations re-render the text and are published to observers as events, which the HTTP
adapter streams over SSE.
*/
package workspace
