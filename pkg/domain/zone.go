package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Zone is a named category of keywords sharing a display color and a diagram shape.
type Zone struct {
	Name     string   `json:"name" yaml:"name" mapstructure:"name"`
	Keywords []string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`
	Color    string   `json:"color" yaml:"color" mapstructure:"color"`
	Shape    Shape    `json:"shape" yaml:"shape" mapstructure:"shape"`
}

// Configuration is the ordered set of zones at a point in time.
//
// Invariant: no keyword, compared with KeywordKey, appears more than once across all zones.
// The zero value is an empty, valid configuration.
type Configuration struct {
	Zones []Zone `json:"zones" yaml:"zones" mapstructure:"zones"`
}

// NewConfiguration builds a configuration from zones, validating every zone and keyword
// in declaration order. Colors are normalised and an empty shape defaults to rectangle.
func NewConfiguration(zones ...Zone) (Configuration, error) {
	var (
		cfg Configuration
		err error
	)
	for _, z := range zones {
		if cfg, err = cfg.AddZone(z); err != nil {
			return Configuration{}, err
		}
	}
	return cfg, nil
}

// Normalize re-validates the configuration and returns its canonical form.
// Use it on configurations that did not go through the mutation methods (decoded JSON, YAML).
func (c Configuration) Normalize() (Configuration, error) {
	return NewConfiguration(c.Zones...)
}

// Validate reports whether the configuration holds the uniqueness invariant
// and carries valid names, colors and shapes.
func (c Configuration) Validate() error {
	_, err := c.Normalize()
	return err
}

// Clone returns a deep copy.
func (c Configuration) Clone() Configuration {
	if c.Zones == nil {
		return Configuration{}
	}
	out := Configuration{Zones: make([]Zone, len(c.Zones))}
	for i, z := range c.Zones {
		z.Keywords = slices.Clone(z.Keywords)
		out.Zones[i] = z
	}
	return out
}

func (c Configuration) index(name string) int {
	name = strings.TrimSpace(name)
	return slices.IndexFunc(c.Zones, func(z Zone) bool { return z.Name == name })
}

// Zone returns the zone with the given name.
func (c Configuration) Zone(name string) (Zone, bool) {
	i := c.index(name)
	if i < 0 {
		return Zone{}, false
	}
	z := c.Zones[i]
	z.Keywords = slices.Clone(z.Keywords)
	return z, true
}

// ZoneNames returns zone names in declaration order.
func (c Configuration) ZoneNames() []string {
	names := make([]string, len(c.Zones))
	for i, z := range c.Zones {
		names[i] = z.Name
	}
	return names
}

// KeywordCount returns the number of keywords across all zones.
func (c Configuration) KeywordCount() int {
	n := 0
	for _, z := range c.Zones {
		n += len(z.Keywords)
	}
	return n
}

// Owner returns the zone holding word (case-insensitive) and the keyword as registered.
func (c Configuration) Owner(word string) (zone, keyword string, ok bool) {
	key := KeywordKey(word)
	if key == "" {
		return "", "", false
	}
	for _, z := range c.Zones {
		for _, k := range z.Keywords {
			if KeywordKey(k) == key {
				return z.Name, k, true
			}
		}
	}
	return "", "", false
}

// IsKeywordUsed reports whether word is registered in any zone, case-insensitively.
func (c Configuration) IsKeywordUsed(word string) bool {
	_, _, ok := c.Owner(word)
	return ok
}

// AddKeyword returns a copy of c with word appended to the zone.
// Empty words and words already used anywhere in c are rejected with a *ValidationError.
func (c Configuration) AddKeyword(zone, word string) (Configuration, error) {
	w := NormalizeKeyword(word)
	if w == "" {
		return c, &ValidationError{Op: OpAddKeyword, Zone: zone, Keyword: word, Err: ErrEmptyKeyword}
	}
	i := c.index(zone)
	if i < 0 {
		return c, fmt.Errorf("%w: %q", ErrZoneNotFound, zone)
	}
	if owner, _, ok := c.Owner(w); ok {
		return c, &ValidationError{Op: OpAddKeyword, Zone: zone, Keyword: w, Conflict: owner, Err: ErrDuplicateKeyword}
	}

	next := c.Clone()
	next.Zones[i].Keywords = append(next.Zones[i].Keywords, w)
	return next, nil
}

// RemoveKeyword returns a copy of c without word in the zone.
// An exact match is preferred; otherwise the case-insensitive match is removed.
func (c Configuration) RemoveKeyword(zone, word string) (Configuration, error) {
	i := c.index(zone)
	if i < 0 {
		return c, fmt.Errorf("%w: %q", ErrZoneNotFound, zone)
	}
	keywords := c.Zones[i].Keywords
	pos := slices.Index(keywords, word)
	if pos < 0 {
		key := KeywordKey(word)
		pos = slices.IndexFunc(keywords, func(k string) bool { return key != "" && KeywordKey(k) == key })
	}
	if pos < 0 {
		return c, fmt.Errorf("%w: %q in zone %q", ErrKeywordNotFound, word, zone)
	}

	next := c.Clone()
	next.Zones[i].Keywords = slices.Delete(next.Zones[i].Keywords, pos, pos+1)
	return next, nil
}

// SetZoneColor returns a copy of c with the zone recolored. Keyword identity is unaffected.
func (c Configuration) SetZoneColor(zone, color string) (Configuration, error) {
	i := c.index(zone)
	if i < 0 {
		return c, fmt.Errorf("%w: %q", ErrZoneNotFound, zone)
	}
	normalized, err := NormalizeColor(color)
	if err != nil {
		return c, &ValidationError{Op: OpSetZoneColor, Zone: zone, Err: err}
	}

	next := c.Clone()
	next.Zones[i].Color = normalized
	return next, nil
}

// SetZoneShape returns a copy of c with the zone's diagram shape changed.
func (c Configuration) SetZoneShape(zone string, shape Shape) (Configuration, error) {
	i := c.index(zone)
	if i < 0 {
		return c, fmt.Errorf("%w: %q", ErrZoneNotFound, zone)
	}
	if !shape.Valid() {
		return c, &ValidationError{Op: OpSetZoneShape, Zone: zone, Err: fmt.Errorf("%w: %q", ErrInvalidShape, shape)}
	}

	next := c.Clone()
	next.Zones[i].Shape = shape
	return next, nil
}

// AddZone returns a copy of c with z appended. The zone's keywords are validated
// against c and against each other.
func (c Configuration) AddZone(z Zone) (Configuration, error) {
	name := strings.TrimSpace(z.Name)
	if name == "" {
		return c, &ValidationError{Op: OpAddZone, Err: ErrEmptyZoneName}
	}
	if c.index(name) >= 0 {
		return c, &ValidationError{Op: OpAddZone, Zone: name, Err: ErrZoneExists}
	}
	color, err := NormalizeColor(z.Color)
	if err != nil {
		return c, &ValidationError{Op: OpAddZone, Zone: name, Err: err}
	}
	shape := z.Shape
	if shape == "" {
		shape = ShapeRectangle
	} else if shape, err = ParseShape(string(shape)); err != nil {
		return c, &ValidationError{Op: OpAddZone, Zone: name, Err: err}
	}

	next := c.Clone()
	next.Zones = append(next.Zones, Zone{Name: name, Color: color, Shape: shape, Keywords: []string{}})
	for _, k := range z.Keywords {
		if next, err = next.AddKeyword(name, k); err != nil {
			return c, err
		}
	}
	return next, nil
}

// RemoveZone returns a copy of c without the named zone and its keywords.
func (c Configuration) RemoveZone(name string) (Configuration, error) {
	i := c.index(name)
	if i < 0 {
		return c, fmt.Errorf("%w: %q", ErrZoneNotFound, name)
	}
	next := c.Clone()
	next.Zones = slices.Delete(next.Zones, i, i+1)
	return next, nil
}

// Settings returns the diagram payload of every keyword in the zone, in keyword order.
func (c Configuration) Settings(zone string) []SettingsChange {
	z, ok := c.Zone(zone)
	if !ok {
		return nil
	}
	out := make([]SettingsChange, 0, len(z.Keywords))
	for _, k := range z.Keywords {
		out = append(out, SettingsChange{Keyword: k, Zone: z.Name, Shape: z.Shape, Color: z.Color})
	}
	return out
}
