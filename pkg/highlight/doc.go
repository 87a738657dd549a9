/*
Package highlight implements the Surligne highlighter engine.

The engine is a pure function of (raw text, configuration): it never mutates the
configuration and keeps no state between calls, so it may be called concurrently and
as often as the host likes (typically on every keystroke or configuration change).

# Algorithm

Keywords of every zone are flattened and stable-sorted by length, longest first. Each
keyword is compiled into a case-insensitive literal pattern; keywords containing a word
character are anchored so they only match whole tokens, pure symbol keywords (==, >=)
match anywhere. Every match claims its region of the text; claimed regions are never
matched again, which is what keeps "si" from splitting "finsi".

Matches are kept as a sequence of Segments rather than spliced into the text, so no
placeholder can collide with user input. Escaping of &, < and > is applied to every
segment on output, and matched text keeps the casing the user typed.
*/
package highlight
