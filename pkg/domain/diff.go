package domain

import "slices"

// ConfigDiff represents the changes between two configurations.
// It is designed to be serialized to JSON for partial updates on the client.
type ConfigDiff struct {
	// Workspace identifies the target; set by the host, not by Diff.
	Workspace string `json:"workspace,omitempty"`

	AddedZones   []string `json:"added_zones,omitempty"`
	RemovedZones []string `json:"removed_zones,omitempty"`

	// Zones holds per-zone deltas for zones present in the new configuration.
	Zones map[string]*ZoneDelta `json:"zones,omitempty"`
}

// ZoneDelta describes what changed inside one zone.
type ZoneDelta struct {
	Color   *string  `json:"color,omitempty"`
	Shape   *Shape   `json:"shape,omitempty"`
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

func (z *ZoneDelta) isEmpty() bool {
	return z.Color == nil && z.Shape == nil && len(z.Added) == 0 && len(z.Removed) == 0
}

// Diff calculates the difference between oldCfg and newCfg.
// If oldCfg is nil, it returns a diff representing the entire newCfg (initial load).
// It returns nil when nothing changed.
func Diff(oldCfg, newCfg *Configuration) *ConfigDiff {
	if newCfg == nil {
		return nil
	}
	if oldCfg == nil {
		oldCfg = &Configuration{}
	}

	diff := &ConfigDiff{Zones: make(map[string]*ZoneDelta)}

	for _, z := range oldCfg.Zones {
		if newCfg.index(z.Name) < 0 {
			diff.RemovedZones = append(diff.RemovedZones, z.Name)
		}
	}

	for _, nz := range newCfg.Zones {
		delta := &ZoneDelta{}
		oz, existed := oldCfg.Zone(nz.Name)
		if !existed {
			diff.AddedZones = append(diff.AddedZones, nz.Name)
		}
		if !existed || oz.Color != nz.Color {
			delta.Color = &nz.Color
		}
		if !existed || oz.Shape != nz.Shape {
			delta.Shape = &nz.Shape
		}
		delta.Added = diffKeywords(nz.Keywords, oz.Keywords)
		delta.Removed = diffKeywords(oz.Keywords, nz.Keywords)
		if !delta.isEmpty() {
			diff.Zones[nz.Name] = delta
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	if len(diff.Zones) == 0 {
		diff.Zones = nil
	}
	return diff
}

// diffKeywords returns the keywords of a missing from b, in a's order.
func diffKeywords(a, b []string) []string {
	var out []string
	for _, k := range a {
		if !slices.Contains(b, k) {
			out = append(out, k)
		}
	}
	return out
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *ConfigDiff) IsEmpty() bool {
	return len(d.AddedZones) == 0 && len(d.RemovedZones) == 0 && len(d.Zones) == 0
}
