package domain

// Palette is a named color preset applied zone by zone.
type Palette string

const (
	PaletteSimple Palette = "simple"
	PaletteVivid  Palette = "vivid"
)

// defaultZones is the pseudocode vocabulary Surligne ships with.
var defaultZones = []Zone{
	{
		Name:     "instructions",
		Keywords: []string{"afficher", "lire", "retourner", "stop", "pause", "continuer", "sortir", "debut", "fin"},
		Color:    "#2aa6ff",
		Shape:    ShapeRectangle,
	},
	{
		Name:     "boucles",
		Keywords: []string{"tantque", "pour", "repeter", "jusqua", "faire"},
		Color:    "#2bd58a",
		Shape:    ShapeRectangle,
	},
	{
		Name:     "comparaisons",
		Keywords: []string{"==", "!=", ">", "<", ">=", "<=", "et", "ou", "non"},
		Color:    "#9b7bff",
		Shape:    ShapeRectangle,
	},
	{
		Name:     "conditions",
		Keywords: []string{"si", "sinon", "sinon_si", "selon", "cas", "finsi", "fincondition", "alors"},
		Color:    "#7fb3ff",
		Shape:    ShapeDiamond,
	},
	{
		Name:     "fonctions",
		Keywords: []string{"fonction", "retour", "appel", "parametre"},
		Color:    "#16a085",
		Shape:    ShapeRectangle,
	},
	{
		Name:     "procedures",
		Keywords: []string{"procedure", "debut_proc", "fin_proc", "executer"},
		Color:    "#e67e22",
		Shape:    ShapeRectangle,
	},
}

// The simple palette has no entries: applying it keeps every zone's current color.
var palettes = map[Palette]map[string]string{
	PaletteSimple: {},
	PaletteVivid: {
		"instructions": "#35b7ff",
		"boucles":      "#1ad67a",
		"comparaisons": "#b77bff",
		"conditions":   "#5fbfff",
		"fonctions":    "#0fb29a",
		"procedures":   "#ff9a3b",
	},
}

// DefaultConfiguration returns a fresh copy of the built-in zones.
func DefaultConfiguration() Configuration {
	return Configuration{Zones: defaultZones}.Clone()
}

// Palettes returns the known palette names.
func Palettes() []Palette {
	return []Palette{PaletteSimple, PaletteVivid}
}

// PaletteColor returns the preset color of the zone in palette p.
// ok is false for unknown palettes and for zones the palette has no entry for.
func PaletteColor(p Palette, zone string) (color string, ok bool) {
	preset, known := palettes[p]
	if !known {
		return "", false
	}
	color, ok = preset[zone]
	return color, ok
}

// KnownPalette reports whether p is a palette name.
func KnownPalette(p Palette) bool {
	_, ok := palettes[p]
	return ok
}
