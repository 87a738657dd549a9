package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/surligne/pkg/domain"
	"github.com/aretw0/surligne/pkg/highlight"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// NewRenderer returns a function that renders markdown using glamour.
// An empty style detects the terminal background; "notty" renders plain text.
func NewRenderer(style string) (func(string) (string, error), error) {
	opt := glamour.WithAutoStyle()
	if style != "" {
		opt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(100))
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// RenderANSI renders highlight segments for a terminal: keywords in bold, in their zone color.
// The text is not HTML-escaped.
func RenderANSI(segments []highlight.Segment, p termenv.Profile) string {
	var sb strings.Builder
	for _, seg := range segments {
		if !seg.Styled {
			sb.WriteString(seg.Text)
			continue
		}
		sb.WriteString(p.String(seg.Text).Foreground(p.Color(seg.Color)).Bold().String())
	}
	return sb.String()
}

var cellReplacer = strings.NewReplacer("|", `\|`, "`", "'")

// ZonesMarkdown describes the configuration as a markdown table.
func ZonesMarkdown(cfg domain.Configuration) string {
	var sb strings.Builder
	sb.WriteString("# Zones\n\n")
	if len(cfg.Zones) == 0 {
		sb.WriteString("_No zones configured._\n")
		return sb.String()
	}

	sb.WriteString("| Zone | Color | Shape | Keywords |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, z := range cfg.Zones {
		keywords := make([]string, len(z.Keywords))
		for i, k := range z.Keywords {
			keywords[i] = "`" + cellReplacer.Replace(k) + "`"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", cellReplacer.Replace(z.Name), z.Color, z.Shape, strings.Join(keywords, " "))
	}
	fmt.Fprintf(&sb, "\n%d zones, %d keywords.\n", len(cfg.Zones), cfg.KeywordCount())
	return sb.String()
}
