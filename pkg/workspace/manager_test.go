package workspace_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/surligne/pkg/adapters/memory"
	"github.com/aretw0/surligne/pkg/domain"
	"github.com/aretw0/surligne/pkg/ports"
	"github.com/aretw0/surligne/pkg/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []workspace.Event
}

func (r *recorder) observe(e workspace.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []workspace.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]workspace.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func (r *recorder) last(t workspace.EventType) (workspace.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == t {
			return r.events[i], true
		}
	}
	return workspace.Event{}, false
}

func baseConfig(t *testing.T) domain.Configuration {
	t.Helper()
	cfg, err := domain.NewConfiguration(
		domain.Zone{Name: "cond", Keywords: []string{"if"}, Color: "#ff0000", Shape: domain.ShapeDiamond},
		domain.Zone{Name: "loop", Keywords: []string{"while"}, Color: "#00ff00"},
	)
	require.NoError(t, err)
	return cfg
}

func TestManager_Lifecycle(t *testing.T) {
	m, err := workspace.NewManager(workspace.WithBaseConfiguration(baseConfig(t)))
	require.NoError(t, err)

	_, err = m.Get("a")
	assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)

	a, err := m.Open("a")
	require.NoError(t, err)
	again, err := m.Open("a")
	require.NoError(t, err)
	assert.Same(t, a, again)

	_, err = m.Open("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, m.List())

	_, err = m.Open("  ")
	assert.Error(t, err)

	require.NoError(t, m.Delete("a"))
	assert.ErrorIs(t, m.Delete("a"), domain.ErrWorkspaceNotFound)
	assert.Equal(t, []string{"b"}, m.List())
}

func TestManager_InvalidBase(t *testing.T) {
	bad := domain.Configuration{Zones: []domain.Zone{{Name: "x", Color: "nope"}}}
	_, err := workspace.NewManager(workspace.WithBaseConfiguration(bad))
	assert.ErrorIs(t, err, domain.ErrInvalidColor)
}

func TestWorkspace_SetText(t *testing.T) {
	m, err := workspace.NewManager(workspace.WithBaseConfiguration(baseConfig(t)))
	require.NoError(t, err)
	rec := &recorder{}
	m.Observe(rec.observe)

	ws, err := m.Open("w")
	require.NoError(t, err)

	r := ws.SetText("if a<b while")
	assert.Equal(t, 2, r.Matches)
	assert.Equal(t, `<span style="color:#ff0000; font-weight:bold">if</span> a&lt;b <span style="color:#00ff00; font-weight:bold">while</span>`, r.HTML)
	assert.Equal(t, "if a<b while", ws.Text())

	ev, ok := rec.last(workspace.EventRender)
	require.True(t, ok)
	assert.Equal(t, "w", ev.Workspace)
	assert.Equal(t, r, ev.Data)
}

func TestWorkspace_MutationEvents(t *testing.T) {
	ctx := context.Background()
	m, err := workspace.NewManager(workspace.WithBaseConfiguration(baseConfig(t)))
	require.NoError(t, err)
	rec := &recorder{}
	cancel := m.Observe(rec.observe)

	ws, err := m.Open("w")
	require.NoError(t, err)
	ws.SetText("if x")

	require.NoError(t, ws.Editor().SetZoneColor(ctx, "cond", "#0000ff"))
	assert.Equal(t, []workspace.EventType{
		workspace.EventRender,
		workspace.EventSettings,
		workspace.EventConfig,
		workspace.EventRender,
	}, rec.types())

	ev, _ := rec.last(workspace.EventSettings)
	assert.Equal(t, []domain.SettingsChange{{Keyword: "if", Zone: "cond", Shape: domain.ShapeDiamond, Color: "#0000ff"}}, ev.Data)

	ev, _ = rec.last(workspace.EventConfig)
	diff, ok := ev.Data.(*domain.ConfigDiff)
	require.True(t, ok)
	assert.Equal(t, "w", diff.Workspace)
	require.Contains(t, diff.Zones, "cond")
	assert.Equal(t, "#0000ff", *diff.Zones["cond"].Color)

	ev, _ = rec.last(workspace.EventRender)
	assert.Contains(t, ev.Data.(workspace.Render).HTML, "color:#0000ff")

	// Keyword edits re-render without notifying the diagram.
	require.NoError(t, ws.Editor().AddKeyword(ctx, "loop", "x"))
	ev, _ = rec.last(workspace.EventRender)
	assert.Equal(t, 2, ev.Data.(workspace.Render).Matches)
	assert.Len(t, rec.types(), 6)

	cancel()
	ws.SetText("nothing")
	assert.Len(t, rec.types(), 6)
}

func TestWorkspace_Isolation(t *testing.T) {
	ctx := context.Background()
	m, err := workspace.NewManager(workspace.WithBaseConfiguration(baseConfig(t)))
	require.NoError(t, err)

	a, _ := m.Open("a")
	b, _ := m.Open("b")
	require.NoError(t, a.Editor().AddKeyword(ctx, "loop", "for"))

	assert.True(t, a.Editor().Configuration().IsKeywordUsed("for"))
	assert.False(t, b.Editor().Configuration().IsKeywordUsed("for"))
}

func TestManager_NotifierFactory(t *testing.T) {
	ctx := context.Background()
	notifiers := make(map[string]*memory.Notifier)
	m, err := workspace.NewManager(
		workspace.WithBaseConfiguration(baseConfig(t)),
		workspace.WithNotifierFactory(func(id string) ports.Notifier {
			n := memory.NewNotifier()
			notifiers[id] = n
			return n
		}),
	)
	require.NoError(t, err)

	ws, err := m.Open("diagram")
	require.NoError(t, err)
	require.NoError(t, ws.Editor().SetZoneShape(ctx, "loop", "diamond"))

	require.Contains(t, notifiers, "diagram")
	assert.Equal(t, []domain.SettingsChange{{Keyword: "while", Zone: "loop", Shape: domain.ShapeDiamond, Color: "#00ff00"}}, notifiers["diagram"].Changes())
}

func TestManager_SharedHooks(t *testing.T) {
	ctx := context.Background()
	var mu sync.Mutex
	var seen []string
	m, err := workspace.NewManager(
		workspace.WithBaseConfiguration(baseConfig(t)),
		workspace.WithLifecycleHooks(domain.LifecycleHooks{
			OnMutation: func(_ context.Context, e *domain.MutationEvent) {
				mu.Lock()
				defer mu.Unlock()
				seen = append(seen, e.Op)
			},
		}),
	)
	require.NoError(t, err)

	for i := range 3 {
		ws, err := m.Open(fmt.Sprintf("w%d", i))
		require.NoError(t, err)
		require.NoError(t, ws.Editor().AddKeyword(ctx, "loop", "for"))
	}
	assert.Equal(t, []string{domain.OpAddKeyword, domain.OpAddKeyword, domain.OpAddKeyword}, seen)
}

func TestWorkspace_ConcurrentMutationsNeverPublishStaleDiffs(t *testing.T) {
	base := domain.Configuration{Zones: []domain.Zone{{Name: "z", Color: "#111111"}}}
	m, err := workspace.NewManager(workspace.WithBaseConfiguration(base))
	require.NoError(t, err)
	rec := &recorder{}
	m.Observe(rec.observe)

	ws, err := m.Open("w")
	require.NoError(t, err)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, ws.Editor().AddKeyword(ctx, "z", fmt.Sprintf("k%d", i)))
		}(i)
	}
	wg.Wait()

	added := make(map[string]bool)
	rec.mu.Lock()
	for _, e := range rec.events {
		if e.Type != workspace.EventConfig {
			continue
		}
		diff := e.Data.(*domain.ConfigDiff)
		for _, delta := range diff.Zones {
			assert.Empty(t, delta.Removed, "a late hook must not roll the published state back")
			for _, kw := range delta.Added {
				assert.False(t, added[kw], "keyword %s published twice", kw)
				added[kw] = true
			}
		}
	}
	rec.mu.Unlock()
	assert.Len(t, added, 50)
}
