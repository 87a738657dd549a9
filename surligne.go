package surligne

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/surligne/internal/logging"
	"github.com/aretw0/surligne/internal/presentation/graph"
	"github.com/aretw0/surligne/pkg/domain"
	"github.com/aretw0/surligne/pkg/editor"
	"github.com/aretw0/surligne/pkg/highlight"
	"github.com/aretw0/surligne/pkg/ports"
)

// Engine is the high-level entry point for the surligne library.
// It bundles a highlighter and an editor holding the current configuration.
type Engine struct {
	editor       *editor.Editor
	highlighter  *highlight.Engine
	source       ports.ConfigSource
	cfg          *domain.Configuration
	notifier     ports.Notifier
	hooks        domain.LifecycleHooks
	matchTimeout time.Duration
	logger       *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks on the editor.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithConfiguration sets the starting configuration. It takes precedence over WithSource.
func WithConfiguration(cfg domain.Configuration) Option {
	return func(e *Engine) {
		c := cfg.Clone()
		e.cfg = &c
	}
}

// WithSource loads the starting configuration from src (a preset file, an in-memory source).
func WithSource(src ports.ConfigSource) Option {
	return func(e *Engine) {
		e.source = src
	}
}

// WithNotifier sets the diagram notifier called on color and shape changes.
func WithNotifier(n ports.Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithMatchTimeout bounds the time spent matching a single keyword.
func WithMatchTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.matchTimeout = d
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine. Without WithConfiguration or WithSource it starts from
// domain.DefaultConfiguration.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}

	e.highlighter = highlight.New(
		highlight.WithLogger(e.logger),
		highlight.WithMatchTimeout(e.matchTimeout),
	)

	cfg := domain.DefaultConfiguration()
	switch {
	case e.cfg != nil:
		cfg = *e.cfg
	case e.source != nil:
		loaded, err := e.source.Load(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	}

	edOpts := []editor.Option{
		editor.WithConfiguration(cfg),
		editor.WithHighlighter(e.highlighter),
		editor.WithLifecycleHooks(e.hooks),
		editor.WithLogger(e.logger),
	}
	if e.notifier != nil {
		edOpts = append(edOpts, editor.WithNotifier(e.notifier))
	}
	ed, err := editor.New(edOpts...)
	if err != nil {
		return nil, err
	}
	e.editor = ed
	return e, nil
}

// Highlight renders text against the current configuration.
func (e *Engine) Highlight(text string) string {
	return e.editor.Highlight(text)
}

// Segments returns the segments behind Highlight.
func (e *Engine) Segments(text string) []highlight.Segment {
	return e.editor.Segments(text)
}

// Editor exposes the configuration editor.
func (e *Engine) Editor() *editor.Editor {
	return e.editor
}

// Configuration returns a snapshot of the current configuration.
func (e *Engine) Configuration() domain.Configuration {
	return e.editor.Configuration()
}

// Diagram returns the Mermaid diagram of the current configuration.
func (e *Engine) Diagram() string {
	return graph.GenerateMermaid(e.editor.Configuration(), nil)
}

// DiagramFor returns the diagram with the keywords found in text outlined.
func (e *Engine) DiagramFor(text string) string {
	cfg := e.editor.Configuration()
	return graph.GenerateMermaid(cfg, graph.OverlayFrom(e.highlighter.Segments(text, cfg)))
}
