package domain

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// NormalizeColor validates a #rgb or #rrggbb hex color and returns it as lowercase #rrggbb.
func NormalizeColor(color string) (string, error) {
	c := strings.TrimSpace(color)
	if !strings.HasPrefix(c, "#") || (len(c) != 4 && len(c) != 7) || !isHex(c[1:]) {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	parsed, err := colorful.Hex(c)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	return parsed.Hex(), nil
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
