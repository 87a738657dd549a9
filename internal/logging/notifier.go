package logging

import (
	"context"
	"log/slog"

	"github.com/aretw0/surligne/pkg/domain"
)

// Notifier logs diagram notifications. It stands in for a diagram view when none is attached.
type Notifier struct {
	Logger *slog.Logger
}

// Notify logs one line per keyword.
func (n Notifier) Notify(ctx context.Context, changes []domain.SettingsChange) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, c := range changes {
		logger.InfoContext(ctx, "diagram settings changed",
			"keyword", c.Keyword,
			"zone", c.Zone,
			"shape", c.Shape,
			"color", c.Color,
		)
	}
	return nil
}
