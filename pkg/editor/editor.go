package editor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/surligne/internal/logging"
	"github.com/aretw0/surligne/pkg/domain"
	"github.com/aretw0/surligne/pkg/highlight"
	"github.com/aretw0/surligne/pkg/ports"
)

// Editor owns a configuration and serializes mutations on it.
// Safe for concurrent use; hooks and notifications run outside the lock.
type Editor struct {
	mu  sync.RWMutex
	cfg domain.Configuration

	engine   ports.Highlighter
	notifier ports.Notifier
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures the Editor.
type Option func(*Editor)

// WithConfiguration sets the starting configuration (default: domain.DefaultConfiguration).
func WithConfiguration(cfg domain.Configuration) Option {
	return func(e *Editor) {
		e.cfg = cfg
	}
}

// WithNotifier sets the diagram notifier.
func WithNotifier(n ports.Notifier) Option {
	return func(e *Editor) {
		e.notifier = n
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Editor) {
		e.hooks = hooks
	}
}

// WithHighlighter replaces the highlight engine.
func WithHighlighter(h ports.Highlighter) Option {
	return func(e *Editor) {
		e.engine = h
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// New creates an Editor. The starting configuration is normalised; an invalid one is an error.
func New(opts ...Option) (*Editor, error) {
	e := &Editor{
		cfg:    domain.DefaultConfiguration(),
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.engine == nil {
		e.engine = highlight.New(highlight.WithLogger(e.logger))
	}

	cfg, err := e.cfg.Normalize()
	if err != nil {
		return nil, fmt.Errorf("invalid starting configuration: %w", err)
	}
	e.cfg = cfg
	return e, nil
}

// NewFromSource creates an Editor starting from the configuration provided by src.
func NewFromSource(ctx context.Context, src ports.ConfigSource, opts ...Option) (*Editor, error) {
	cfg, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return New(append(opts, WithConfiguration(cfg))...)
}

// Configuration returns a snapshot of the current configuration.
func (e *Editor) Configuration() domain.Configuration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg.Clone()
}

// Highlight renders text against the current configuration.
func (e *Editor) Highlight(text string) string {
	return e.engine.Highlight(text, e.Configuration())
}

// Segments returns the highlight segments of text against the current configuration.
func (e *Editor) Segments(text string) []highlight.Segment {
	return e.engine.Segments(text, e.Configuration())
}

// AddKeyword registers word in the zone. Empty words and words already used in any
// zone (case-insensitive) are rejected with a *domain.ValidationError.
func (e *Editor) AddKeyword(ctx context.Context, zone, word string) error {
	return e.apply(ctx, domain.OpAddKeyword, zone, word, false, func(cfg domain.Configuration) (domain.Configuration, error) {
		return cfg.AddKeyword(zone, word)
	})
}

// RemoveKeyword removes word from the zone.
func (e *Editor) RemoveKeyword(ctx context.Context, zone, word string) error {
	return e.apply(ctx, domain.OpRemoveKeyword, zone, word, false, func(cfg domain.Configuration) (domain.Configuration, error) {
		return cfg.RemoveKeyword(zone, word)
	})
}

// SetZoneColor recolors the zone and notifies the diagram of every keyword in it.
func (e *Editor) SetZoneColor(ctx context.Context, zone, color string) error {
	return e.apply(ctx, domain.OpSetZoneColor, zone, "", true, func(cfg domain.Configuration) (domain.Configuration, error) {
		return cfg.SetZoneColor(zone, color)
	})
}

// SetZoneShape parses shape, applies it to the zone and notifies the diagram.
func (e *Editor) SetZoneShape(ctx context.Context, zone, shape string) error {
	return e.apply(ctx, domain.OpSetZoneShape, zone, "", true, func(cfg domain.Configuration) (domain.Configuration, error) {
		s, err := domain.ParseShape(shape)
		if err != nil {
			return cfg, &domain.ValidationError{Op: domain.OpSetZoneShape, Zone: zone, Err: err}
		}
		return cfg.SetZoneShape(zone, s)
	})
}

// ApplyPalette sets the zone color from a palette preset. Zones the palette has no
// entry for keep their color; the diagram is notified either way.
func (e *Editor) ApplyPalette(ctx context.Context, zone string, palette domain.Palette) error {
	return e.apply(ctx, domain.OpApplyPalette, zone, "", true, func(cfg domain.Configuration) (domain.Configuration, error) {
		if !domain.KnownPalette(palette) {
			return cfg, &domain.ValidationError{Op: domain.OpApplyPalette, Zone: zone, Err: fmt.Errorf("%w: %q", domain.ErrUnknownPalette, palette)}
		}
		z, ok := cfg.Zone(zone)
		if !ok {
			return cfg, fmt.Errorf("%w: %q", domain.ErrZoneNotFound, zone)
		}
		color, ok := domain.PaletteColor(palette, z.Name)
		if !ok {
			color = z.Color
		}
		return cfg.SetZoneColor(zone, color)
	})
}

// AddZone appends a zone with its keywords.
func (e *Editor) AddZone(ctx context.Context, z domain.Zone) error {
	return e.apply(ctx, domain.OpAddZone, z.Name, "", false, func(cfg domain.Configuration) (domain.Configuration, error) {
		return cfg.AddZone(z)
	})
}

// RemoveZone deletes a zone and its keywords.
func (e *Editor) RemoveZone(ctx context.Context, name string) error {
	return e.apply(ctx, domain.OpRemoveZone, name, "", false, func(cfg domain.Configuration) (domain.Configuration, error) {
		return cfg.RemoveZone(name)
	})
}

// Replace swaps the whole configuration after validating it.
func (e *Editor) Replace(ctx context.Context, next domain.Configuration) error {
	return e.apply(ctx, domain.OpReplace, "", "", false, func(domain.Configuration) (domain.Configuration, error) {
		return next.Normalize()
	})
}

func (e *Editor) apply(ctx context.Context, op, zone, keyword string, notify bool, mutate func(domain.Configuration) (domain.Configuration, error)) error {
	e.mu.Lock()
	next, err := mutate(e.cfg)
	if err != nil {
		e.mu.Unlock()
		e.logger.Debug("mutation rejected", "op", op, "zone", zone, "keyword", keyword, "error", err)
		if e.hooks.OnReject != nil {
			e.hooks.OnReject(ctx, &domain.MutationEvent{Timestamp: e.now(), Op: op, Zone: zone, Keyword: keyword, Err: err})
		}
		return err
	}
	e.cfg = next
	snapshot := next.Clone()
	e.mu.Unlock()

	e.logger.Debug("mutation applied", "op", op, "zone", zone, "keyword", keyword)

	if notify && e.notifier != nil {
		if err := e.notifier.Notify(ctx, snapshot.Settings(zone)); err != nil {
			e.logger.Warn("diagram notification failed", "op", op, "zone", zone, "error", err)
		}
	}
	if e.hooks.OnMutation != nil {
		e.hooks.OnMutation(ctx, &domain.MutationEvent{Timestamp: e.now(), Op: op, Zone: zone, Keyword: keyword})
	}
	if e.hooks.OnChange != nil {
		e.hooks.OnChange(ctx, snapshot)
	}
	return nil
}
