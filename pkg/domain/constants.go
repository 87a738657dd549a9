package domain

// Mutation operation names, shared by ValidationError.Op, MutationEvent.Op and metrics labels.
const (
	OpAddKeyword    = "add_keyword"
	OpRemoveKeyword = "remove_keyword"
	OpSetZoneColor  = "set_zone_color"
	OpSetZoneShape  = "set_zone_shape"
	OpApplyPalette  = "apply_palette"
	OpAddZone       = "add_zone"
	OpRemoveZone    = "remove_zone"
	OpReplace       = "replace"
)
