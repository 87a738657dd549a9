// Package file loads zone presets from YAML or JSON files.
// Presets are read-only: the editor never writes them back.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/surligne/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Source is a ports.ConfigSource backed by a preset file.
type Source struct {
	Path string
}

// NewSource creates a Source reading path on every Load.
func NewSource(path string) *Source {
	return &Source{Path: path}
}

// Load reads and validates the preset.
func (s *Source) Load(ctx context.Context) (domain.Configuration, error) {
	if err := ctx.Err(); err != nil {
		return domain.Configuration{}, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return domain.Configuration{}, fmt.Errorf("failed to read preset: %w", err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(s.Path), ".json") {
		format = "json"
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return domain.Configuration{}, fmt.Errorf("%s: %w", s.Path, err)
	}
	return cfg, nil
}

// Parse decodes a preset document ("yaml" or "json") into a validated configuration.
// Unknown keys are rejected; scalar keywords such as numbers are read as strings.
func Parse(data []byte, format string) (domain.Configuration, error) {
	var raw map[string]any
	switch format {
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return domain.Configuration{}, fmt.Errorf("failed to parse preset json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return domain.Configuration{}, fmt.Errorf("failed to parse preset yaml: %w", err)
		}
	}

	var cfg domain.Configuration
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return domain.Configuration{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return domain.Configuration{}, fmt.Errorf("failed to decode preset: %w", err)
	}

	return cfg.Normalize()
}
