package workspace

import (
	"context"
	"testing"

	"github.com/aretw0/surligne/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnChange_LateSnapshotDoesNotStepBack(t *testing.T) {
	base := domain.Configuration{Zones: []domain.Zone{{Name: "z", Color: "#111111"}}}
	m, err := NewManager(WithBaseConfiguration(base))
	require.NoError(t, err)

	var events []Event
	m.Observe(func(e Event) { events = append(events, e) })

	ws, err := m.Open("w")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, ws.Editor().AddKeyword(ctx, "z", "un"))
	stale := ws.Editor().Configuration()
	require.NoError(t, ws.Editor().AddKeyword(ctx, "z", "deux"))

	events = nil
	ws.onChange(ctx, stale)

	for _, e := range events {
		assert.NotEqual(t, EventConfig, e.Type, "nothing changed since the last published diff")
	}
	ws.mu.Lock()
	last := ws.last
	ws.mu.Unlock()
	z, _ := last.Zone("z")
	assert.Equal(t, []string{"un", "deux"}, z.Keywords)
}
