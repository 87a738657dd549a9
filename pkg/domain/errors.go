package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyKeyword is returned when a keyword is empty after trimming.
	ErrEmptyKeyword = errors.New("keyword is empty")

	// ErrDuplicateKeyword is returned when a keyword is already registered in any zone (case-insensitive).
	ErrDuplicateKeyword = errors.New("keyword already in use")

	// ErrEmptyZoneName is returned when a zone is declared without a name.
	ErrEmptyZoneName = errors.New("zone name is empty")

	// ErrZoneExists is returned when adding a zone whose name is already taken.
	ErrZoneExists = errors.New("zone already exists")

	// ErrInvalidColor is returned when a color is not a #rgb or #rrggbb hex value.
	ErrInvalidColor = errors.New("invalid color")

	// ErrInvalidShape is returned when a shape is neither rectangle nor diamond.
	ErrInvalidShape = errors.New("invalid shape")

	// ErrUnknownPalette is returned when applying a palette that does not exist.
	ErrUnknownPalette = errors.New("unknown palette")

	// ErrZoneNotFound is returned when a zone name cannot be found in the configuration.
	ErrZoneNotFound = errors.New("zone not found")

	// ErrKeywordNotFound is returned when removing a keyword the zone does not hold.
	ErrKeywordNotFound = errors.New("keyword not found")

	// ErrWorkspaceNotFound is returned when a workspace ID cannot be found.
	ErrWorkspaceNotFound = errors.New("workspace not found")
)

// ValidationError describes a rejected configuration mutation.
// The configuration the mutation was applied to is left unchanged.
type ValidationError struct {
	Op      string // add_keyword, set_zone_color, ...
	Zone    string
	Keyword string
	// Conflict names the zone already holding the keyword, for ErrDuplicateKeyword.
	Conflict string
	Err      error
}

func (e *ValidationError) Error() string {
	msg := e.Op
	if e.Keyword != "" {
		msg += fmt.Sprintf(" %q", e.Keyword)
	}
	if e.Zone != "" {
		msg += fmt.Sprintf(" (zone %q)", e.Zone)
	}
	msg += ": " + e.Err.Error()
	if e.Conflict != "" {
		msg += fmt.Sprintf(" in zone %q", e.Conflict)
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
