package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/surligne/pkg/domain"
	"github.com/aretw0/surligne/pkg/highlight"
)

// GraphOverlay contains dynamic state data to visualize on the diagram.
type GraphOverlay struct {
	// Used lists the keywords found in the current text; matching nodes are outlined.
	Used []string
}

// OverlayFrom marks every keyword matched in segments.
func OverlayFrom(segments []highlight.Segment) *GraphOverlay {
	overlay := &GraphOverlay{}
	for _, seg := range segments {
		if seg.Styled {
			overlay.Used = append(overlay.Used, seg.Keyword)
		}
	}
	return overlay
}

// GenerateMermaid produces a Mermaid flowchart of the configuration: one subgraph per zone,
// one node per keyword. Shapes follow the zone:
// - Rectangle: ["keyword"]
// - Diamond: {"keyword"}
// Every node is filled with its zone color.
func GenerateMermaid(cfg domain.Configuration, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	nodeIDs := make(map[string]string) // keyword key -> node ID
	var styles []string

	for i, zone := range cfg.Zones {
		zoneID := fmt.Sprintf("z%d_%s", i, sanitizeMermaidID(zone.Name))
		sb.WriteString(fmt.Sprintf("    subgraph %s[\"%s\"]\n", zoneID, escapeLabel(zone.Name)))

		opener, closer := "[", "]"
		if zone.Shape == domain.ShapeDiamond {
			opener, closer = "{", "}"
		}
		for j, kw := range zone.Keywords {
			id := fmt.Sprintf("%s_k%d", zoneID, j)
			nodeIDs[domain.KeywordKey(kw)] = id
			sb.WriteString(fmt.Sprintf("        %s%s\"%s\"%s\n", id, opener, escapeLabel(kw), closer))
			styles = append(styles, fmt.Sprintf("    style %s fill:%s,stroke:#333,color:#000\n", id, zone.Color))
		}
		sb.WriteString("    end\n")
	}

	for _, s := range styles {
		sb.WriteString(s)
	}

	if overlay != nil && len(overlay.Used) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef used stroke:#000,stroke-width:3px;\n")

		seen := make(map[string]bool)
		for _, kw := range overlay.Used {
			id, ok := nodeIDs[domain.KeywordKey(kw)]
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			sb.WriteString(fmt.Sprintf("    class %s used;\n", id))
		}
	}

	return sb.String()
}

var labelReplacer = strings.NewReplacer(`"`, "#quot;", "<", "#lt;", ">", "#gt;")

// escapeLabel replaces the characters Mermaid would parse inside a quoted label.
func escapeLabel(s string) string {
	return labelReplacer.Replace(s)
}

func sanitizeMermaidID(id string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, id)
}
