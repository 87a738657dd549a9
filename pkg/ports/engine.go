package ports

import (
	"github.com/aretw0/surligne/pkg/domain"
	"github.com/aretw0/surligne/pkg/highlight"
)

// Highlighter is the engine contract consumed by adapters.
type Highlighter interface {
	// Highlight returns the escaped, annotated markup of text.
	Highlight(text string, cfg domain.Configuration) string

	// Segments returns the intermediate representation behind Highlight.
	Segments(text string, cfg domain.Configuration) []highlight.Segment
}

var _ Highlighter = (*highlight.Engine)(nil)
