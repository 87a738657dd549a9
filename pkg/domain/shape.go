package domain

import (
	"fmt"
	"strings"
)

// Shape is the diagram shape of a zone. It is carried for the diagram view only;
// highlighting never looks at it.
type Shape string

const (
	ShapeRectangle Shape = "rectangle"
	ShapeDiamond   Shape = "diamond"
)

// shapeAliases maps accepted spellings to shapes ("losange" is the French diamond).
var shapeAliases = map[string]Shape{
	"rectangle": ShapeRectangle,
	"rect":      ShapeRectangle,
	"diamond":   ShapeDiamond,
	"losange":   ShapeDiamond,
	"rhombus":   ShapeDiamond,
}

// ParseShape parses a shape name, case-insensitively.
func ParseShape(s string) (Shape, error) {
	if shape, ok := shapeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return shape, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidShape, s)
}

// Valid reports whether s is one of the canonical shapes.
func (s Shape) Valid() bool {
	return s == ShapeRectangle || s == ShapeDiamond
}

func (s Shape) String() string {
	return string(s)
}

// UnmarshalText accepts any alias understood by ParseShape.
func (s *Shape) UnmarshalText(text []byte) error {
	shape, err := ParseShape(string(text))
	if err != nil {
		return err
	}
	*s = shape
	return nil
}
