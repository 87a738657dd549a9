package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/surligne/internal/logging"
	"github.com/aretw0/surligne/pkg/domain"
	"github.com/aretw0/surligne/pkg/editor"
	"github.com/aretw0/surligne/pkg/ports"
)

// NotifierFactory returns the diagram notifier of one workspace.
type NotifierFactory func(workspaceID string) ports.Notifier

// Manager creates workspaces on demand and fans their events out to observers.
type Manager struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace

	base      domain.Configuration
	notifiers NotifierFactory
	hooks     domain.LifecycleHooks
	engine    ports.Highlighter
	logger    *slog.Logger

	obsMu     sync.RWMutex
	observers map[int]func(Event)
	nextObs   int
}

// Option configures the Manager.
type Option func(*Manager)

// WithBaseConfiguration sets the configuration new workspaces start from
// (default: domain.DefaultConfiguration).
func WithBaseConfiguration(cfg domain.Configuration) Option {
	return func(m *Manager) {
		m.base = cfg
	}
}

// WithNotifierFactory sets the per-workspace diagram notifier.
func WithNotifierFactory(f NotifierFactory) Option {
	return func(m *Manager) {
		m.notifiers = f
	}
}

// WithLifecycleHooks registers hooks shared by every workspace editor.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithHighlighter replaces the highlight engine of every workspace.
func WithHighlighter(h ports.Highlighter) Option {
	return func(m *Manager) {
		m.engine = h
	}
}

// WithLogger configures a logger for the Manager and its editors.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a workspace Manager.
func NewManager(opts ...Option) (*Manager, error) {
	m := &Manager{
		workspaces: make(map[string]*Workspace),
		base:       domain.DefaultConfiguration(),
		logger:     logging.NewNop(),
		observers:  make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(m)
	}
	base, err := m.base.Normalize()
	if err != nil {
		return nil, fmt.Errorf("invalid base configuration: %w", err)
	}
	m.base = base
	return m, nil
}

// Base returns a copy of the configuration new workspaces start from.
func (m *Manager) Base() domain.Configuration {
	return m.base.Clone()
}

// Open returns the workspace with the given ID, creating it from the base configuration
// if it does not exist.
func (m *Manager) Open(id string) (*Workspace, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", domain.ErrWorkspaceNotFound)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if ws, ok := m.workspaces[id]; ok {
		return ws, nil
	}

	ws := &Workspace{id: id, emit: m.publish, last: m.base.Clone()}
	hooks := m.hooks
	userOnChange := hooks.OnChange
	hooks.OnChange = func(ctx context.Context, cfg domain.Configuration) {
		ws.onChange(ctx, cfg)
		if userOnChange != nil {
			userOnChange(ctx, cfg)
		}
	}

	settings := ports.NotifierFunc(func(_ context.Context, changes []domain.SettingsChange) error {
		m.publish(Event{Workspace: id, Type: EventSettings, Data: changes})
		return nil
	})
	var notifier ports.Notifier = settings
	if m.notifiers != nil {
		if n := m.notifiers(id); n != nil {
			notifier = ports.Fanout{settings, n}
		}
	}

	opts := []editor.Option{
		editor.WithConfiguration(m.base.Clone()),
		editor.WithNotifier(notifier),
		editor.WithLifecycleHooks(hooks),
		editor.WithLogger(m.logger.With("workspace", id)),
	}
	if m.engine != nil {
		opts = append(opts, editor.WithHighlighter(m.engine))
	}
	ed, err := editor.New(opts...)
	if err != nil {
		return nil, err
	}
	ws.editor = ed

	m.workspaces[id] = ws
	m.logger.Info("workspace opened", "workspace", id)
	return ws, nil
}

// Get returns an existing workspace.
func (m *Manager) Get(id string) (*Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, ok := m.workspaces[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrWorkspaceNotFound, id)
	}
	return ws, nil
}

// Delete drops a workspace.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workspaces[id]; !ok {
		return fmt.Errorf("%w: %q", domain.ErrWorkspaceNotFound, id)
	}
	delete(m.workspaces, id)
	m.logger.Info("workspace deleted", "workspace", id)
	return nil
}

// List returns the workspace IDs in lexical order.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.workspaces))
	for id := range m.workspaces {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Observe registers fn for every workspace event and returns a function removing it.
// fn runs synchronously on the mutating goroutine and must not block.
func (m *Manager) Observe(fn func(Event)) (cancel func()) {
	m.obsMu.Lock()
	defer m.obsMu.Unlock()
	id := m.nextObs
	m.nextObs++
	m.observers[id] = fn
	return func() {
		m.obsMu.Lock()
		defer m.obsMu.Unlock()
		delete(m.observers, id)
	}
}

func (m *Manager) publish(e Event) {
	m.obsMu.RLock()
	defer m.obsMu.RUnlock()
	for _, fn := range m.observers {
		fn(e)
	}
}
