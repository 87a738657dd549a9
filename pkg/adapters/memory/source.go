package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/surligne/pkg/domain"
)

// Source implements ports.ConfigSource using an in-memory list of zones.
type Source struct {
	zones []domain.Zone
}

// NewSource creates a Source from domain objects.
func NewSource(zones ...domain.Zone) *Source {
	return &Source{zones: zones}
}

// NewFromJSON creates a Source from a JSON document shaped like domain.Configuration.
func NewFromJSON(data []byte) (*Source, error) {
	var cfg domain.Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &Source{zones: cfg.Zones}, nil
}

// Load validates the zones and returns the normalised configuration.
func (s *Source) Load(ctx context.Context) (domain.Configuration, error) {
	return domain.NewConfiguration(s.zones...)
}
