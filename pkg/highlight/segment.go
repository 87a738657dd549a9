package highlight

import (
	"fmt"
	"html"
	"strings"
)

// Segment is one piece of highlighted text: either literal text or a keyword match.
type Segment struct {
	Text    string `json:"text"`
	Styled  bool   `json:"styled,omitempty"`
	Color   string `json:"color,omitempty"`
	Zone    string `json:"zone,omitempty"`
	Keyword string `json:"keyword,omitempty"`
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Escape replaces &, < and > with their HTML entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

// RenderHTML turns segments into markup. Matched segments are wrapped in a bold span
// carrying the zone color.
func RenderHTML(segments []Segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		if !seg.Styled {
			sb.WriteString(Escape(seg.Text))
			continue
		}
		fmt.Fprintf(&sb, `<span style="color:%s; font-weight:bold">%s</span>`, html.EscapeString(seg.Color), Escape(seg.Text))
	}
	return sb.String()
}

// Matches returns the number of styled segments.
func Matches(segments []Segment) int {
	n := 0
	for _, seg := range segments {
		if seg.Styled {
			n++
		}
	}
	return n
}
