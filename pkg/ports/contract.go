package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/surligne/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunNotifierContract runs a suite of tests to verify that a Notifier implementation
// delivers what it is given. received must block until the notifier's sink has
// observed n changes or the deadline passes, and return what it saw.
func RunNotifierContract(t *testing.T, notifier Notifier, received func(n int, deadline time.Duration) []domain.SettingsChange) {
	ctx := context.Background()

	t.Run("Delivers Batch In Order", func(t *testing.T) {
		changes := []domain.SettingsChange{
			{Keyword: "si", Zone: "conditions", Shape: domain.ShapeDiamond, Color: "#7fb3ff"},
			{Keyword: "alors", Zone: "conditions", Shape: domain.ShapeDiamond, Color: "#7fb3ff"},
		}
		err := notifier.Notify(ctx, changes)
		require.NoError(t, err, "Notify should not return error")

		got := received(len(changes), 2*time.Second)
		assert.Equal(t, changes, got)
	})

	t.Run("Empty Batch", func(t *testing.T) {
		err := notifier.Notify(ctx, nil)
		assert.NoError(t, err, "Notify with no changes should be a no-op")
	})
}
