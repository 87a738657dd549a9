package editor_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/surligne/pkg/adapters/memory"
	"github.com/aretw0/surligne/pkg/domain"
	"github.com/aretw0/surligne/pkg/editor"
	"github.com/aretw0/surligne/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEditor(t *testing.T, opts ...editor.Option) (*editor.Editor, *memory.Notifier) {
	t.Helper()
	n := memory.NewNotifier()
	cfg, err := domain.NewConfiguration(
		domain.Zone{Name: "A", Keywords: []string{"if", "else"}, Color: "#ff0000", Shape: domain.ShapeDiamond},
		domain.Zone{Name: "B", Keywords: []string{"while"}, Color: "#00ff00"},
	)
	require.NoError(t, err)
	e, err := editor.New(append([]editor.Option{editor.WithConfiguration(cfg), editor.WithNotifier(n)}, opts...)...)
	require.NoError(t, err)
	return e, n
}

func TestNew_Defaults(t *testing.T) {
	e, err := editor.New()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfiguration(), e.Configuration())
}

func TestNew_InvalidConfiguration(t *testing.T) {
	bad := domain.Configuration{Zones: []domain.Zone{{Name: "A", Keywords: []string{"x"}, Color: "red"}}}
	_, err := editor.New(editor.WithConfiguration(bad))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidColor)
}

func TestNewFromSource(t *testing.T) {
	src := memory.NewSource(domain.Zone{Name: "loops", Keywords: []string{"for"}, Color: "#123456"})
	e, err := editor.NewFromSource(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, []string{"loops"}, e.Configuration().ZoneNames())
}

func TestAddKeyword(t *testing.T) {
	ctx := context.Background()
	e, n := newEditor(t)

	require.NoError(t, e.AddKeyword(ctx, "B", "  for "))
	z, _ := e.Configuration().Zone("B")
	assert.Equal(t, []string{"while", "for"}, z.Keywords)
	assert.Contains(t, e.Highlight("for x"), `<span style="color:#00ff00; font-weight:bold">for</span>`)
	assert.Empty(t, n.Changes(), "keyword edits do not notify the diagram")

	t.Run("Duplicate In Other Zone", func(t *testing.T) {
		err := e.AddKeyword(ctx, "B", "IF")
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.ErrorIs(t, err, domain.ErrDuplicateKeyword)
		assert.Equal(t, "A", verr.Conflict)
	})

	t.Run("Empty", func(t *testing.T) {
		err := e.AddKeyword(ctx, "A", "   ")
		assert.ErrorIs(t, err, domain.ErrEmptyKeyword)
	})

	t.Run("Unknown Zone", func(t *testing.T) {
		err := e.AddKeyword(ctx, "Z", "loop")
		assert.ErrorIs(t, err, domain.ErrZoneNotFound)
	})

	z, _ = e.Configuration().Zone("A")
	assert.Equal(t, []string{"if", "else"}, z.Keywords, "rejected mutations leave the configuration untouched")
}

func TestRemoveKeyword(t *testing.T) {
	ctx := context.Background()
	e, _ := newEditor(t)

	require.NoError(t, e.RemoveKeyword(ctx, "A", "if"))
	assert.Equal(t, "if x", e.Highlight("if x"))
	assert.ErrorIs(t, e.RemoveKeyword(ctx, "A", "if"), domain.ErrKeywordNotFound)

	// The word is free again for any zone.
	require.NoError(t, e.AddKeyword(ctx, "B", "if"))
}

func TestSetZoneColor_NotifiesEveryKeyword(t *testing.T) {
	ctx := context.Background()
	e, n := newEditor(t)

	require.NoError(t, e.SetZoneColor(ctx, "A", "#00F"))
	assert.Equal(t, []domain.SettingsChange{
		{Keyword: "if", Zone: "A", Shape: domain.ShapeDiamond, Color: "#0000ff"},
		{Keyword: "else", Zone: "A", Shape: domain.ShapeDiamond, Color: "#0000ff"},
	}, n.Changes())
	assert.Contains(t, e.Highlight("if"), "color:#0000ff")

	n.Reset()
	err := e.SetZoneColor(ctx, "A", "blue")
	assert.ErrorIs(t, err, domain.ErrInvalidColor)
	assert.Empty(t, n.Changes())
}

func TestSetZoneShape(t *testing.T) {
	ctx := context.Background()
	e, n := newEditor(t)

	require.NoError(t, e.SetZoneShape(ctx, "B", "losange"))
	assert.Equal(t, []domain.SettingsChange{
		{Keyword: "while", Zone: "B", Shape: domain.ShapeDiamond, Color: "#00ff00"},
	}, n.Changes())

	err := e.SetZoneShape(ctx, "B", "circle")
	assert.ErrorIs(t, err, domain.ErrInvalidShape)
	assert.True(t, domain.IsValidation(err))
}

func TestSetZoneShape_EmptyZoneNotifiesNothing(t *testing.T) {
	ctx := context.Background()
	e, n := newEditor(t)
	require.NoError(t, e.AddZone(ctx, domain.Zone{Name: "C", Color: "#abcdef"}))
	require.NoError(t, e.SetZoneShape(ctx, "C", "diamond"))
	assert.Empty(t, n.Changes())
}

func TestApplyPalette(t *testing.T) {
	ctx := context.Background()
	n := memory.NewNotifier()
	e, err := editor.New(editor.WithNotifier(n))
	require.NoError(t, err)

	require.NoError(t, e.ApplyPalette(ctx, "boucles", domain.PaletteVivid))
	z, _ := e.Configuration().Zone("boucles")
	assert.Equal(t, "#1ad67a", z.Color)
	assert.Len(t, n.Changes(), len(z.Keywords))

	err = e.ApplyPalette(ctx, "boucles", "neon")
	assert.ErrorIs(t, err, domain.ErrUnknownPalette)

	require.NoError(t, e.AddZone(ctx, domain.Zone{Name: "extra", Keywords: []string{"goto"}, Color: "#111111"}))
	n.Reset()
	require.NoError(t, e.ApplyPalette(ctx, "extra", domain.PaletteVivid))
	z, _ = e.Configuration().Zone("extra")
	assert.Equal(t, "#111111", z.Color, "zones missing from the palette keep their color")
	assert.Len(t, n.Changes(), 1)
}

func TestApplyPalette_SimpleKeepsCurrentColor(t *testing.T) {
	ctx := context.Background()
	n := memory.NewNotifier()
	e, err := editor.New(editor.WithNotifier(n))
	require.NoError(t, err)

	require.NoError(t, e.SetZoneColor(ctx, "boucles", "#000000"))
	n.Reset()

	require.NoError(t, e.ApplyPalette(ctx, "boucles", domain.PaletteSimple))
	z, _ := e.Configuration().Zone("boucles")
	assert.Equal(t, "#000000", z.Color)

	changes := n.Changes()
	assert.Len(t, changes, len(z.Keywords))
	for _, c := range changes {
		assert.Equal(t, "#000000", c.Color)
	}
}

func TestAddRemoveZone(t *testing.T) {
	ctx := context.Background()
	e, _ := newEditor(t)

	require.NoError(t, e.AddZone(ctx, domain.Zone{Name: "C", Keywords: []string{"func"}, Color: "#abc"}))
	assert.Equal(t, []string{"A", "B", "C"}, e.Configuration().ZoneNames())

	assert.ErrorIs(t, e.AddZone(ctx, domain.Zone{Name: "C", Color: "#abc"}), domain.ErrZoneExists)
	assert.ErrorIs(t, e.AddZone(ctx, domain.Zone{Name: "D", Keywords: []string{"WHILE"}, Color: "#abc"}), domain.ErrDuplicateKeyword)

	require.NoError(t, e.RemoveZone(ctx, "A"))
	assert.Equal(t, "if", e.Highlight("if"))
	assert.ErrorIs(t, e.RemoveZone(ctx, "A"), domain.ErrZoneNotFound)
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	e, _ := newEditor(t)

	bad := domain.Configuration{Zones: []domain.Zone{
		{Name: "X", Keywords: []string{"a"}, Color: "#000"},
		{Name: "Y", Keywords: []string{"A"}, Color: "#000"},
	}}
	assert.ErrorIs(t, e.Replace(ctx, bad), domain.ErrDuplicateKeyword)
	assert.Equal(t, []string{"A", "B"}, e.Configuration().ZoneNames())

	require.NoError(t, e.Replace(ctx, domain.DefaultConfiguration()))
	assert.Len(t, e.Configuration().Zones, 6)
}

func TestHooks(t *testing.T) {
	ctx := context.Background()
	var (
		mu       sync.Mutex
		ops      []string
		rejected []string
		rendered []string
	)
	var e *editor.Editor
	hooks := domain.LifecycleHooks{
		OnMutation: func(_ context.Context, ev *domain.MutationEvent) {
			mu.Lock()
			defer mu.Unlock()
			ops = append(ops, ev.Op)
		},
		OnReject: func(_ context.Context, ev *domain.MutationEvent) {
			mu.Lock()
			defer mu.Unlock()
			require.Error(t, ev.Err)
			rejected = append(rejected, ev.Op)
		},
		OnChange: func(_ context.Context, _ domain.Configuration) {
			// Hooks may call back into the editor.
			out := e.Highlight("while x")
			mu.Lock()
			defer mu.Unlock()
			rendered = append(rendered, out)
		},
	}
	e, _ = newEditor(t, editor.WithLifecycleHooks(hooks))

	require.NoError(t, e.AddKeyword(ctx, "A", "x"))
	require.Error(t, e.AddKeyword(ctx, "A", "x"))
	require.NoError(t, e.SetZoneColor(ctx, "B", "#0000ff"))

	assert.Equal(t, []string{domain.OpAddKeyword, domain.OpSetZoneColor}, ops)
	assert.Equal(t, []string{domain.OpAddKeyword}, rejected)
	require.Len(t, rendered, 2)
	assert.Contains(t, rendered[0], `<span style="color:#ff0000; font-weight:bold">x</span>`)
	assert.Contains(t, rendered[1], "color:#0000ff")
}

func TestNotifierFailureDoesNotRejectMutation(t *testing.T) {
	failing := ports.NotifierFunc(func(context.Context, []domain.SettingsChange) error {
		return errors.New("diagram unavailable")
	})
	e, _ := newEditor(t, editor.WithNotifier(failing))
	require.NoError(t, e.SetZoneColor(context.Background(), "A", "#000000"))
	z, _ := e.Configuration().Zone("A")
	assert.Equal(t, "#000000", z.Color)
}

func TestConfigurationIsSnapshot(t *testing.T) {
	e, _ := newEditor(t)
	cfg := e.Configuration()
	cfg.Zones[0].Keywords[0] = "mutated"
	z, _ := e.Configuration().Zone("A")
	assert.Equal(t, "if", z.Keywords[0])
}

func TestConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	e, _ := newEditor(t)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = e.AddKeyword(ctx, "B", "kw"+strings.Repeat("x", i))
			_ = e.Highlight("while kw")
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 53, e.Configuration().KeywordCount())
}
