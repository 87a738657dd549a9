package ports

import (
	"context"

	"github.com/aretw0/surligne/pkg/domain"
)

// ConfigSource provides the configuration an editor starts from.
// Implementations return a normalised configuration or a *domain.ValidationError.
type ConfigSource interface {
	Load(ctx context.Context) (domain.Configuration, error)
}
