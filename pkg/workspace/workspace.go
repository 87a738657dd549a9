package workspace

import (
	"context"
	"sync"

	"github.com/aretw0/surligne/pkg/domain"
	"github.com/aretw0/surligne/pkg/editor"
	"github.com/aretw0/surligne/pkg/highlight"
)

// EventType names the kind of change carried by an Event.
type EventType string

const (
	// EventRender carries a Render of the workspace text.
	EventRender EventType = "render"
	// EventSettings carries the []domain.SettingsChange sent to the diagram.
	EventSettings EventType = "settings"
	// EventConfig carries the *domain.ConfigDiff of an accepted mutation.
	EventConfig EventType = "config"
)

// Event is a change in one workspace.
type Event struct {
	Workspace string    `json:"workspace"`
	Type      EventType `json:"type"`
	Data      any       `json:"data"`
}

// Render is the highlighted form of a workspace text.
type Render struct {
	Workspace string              `json:"workspace"`
	Text      string              `json:"text"`
	HTML      string              `json:"html"`
	Segments  []highlight.Segment `json:"segments"`
	Matches   int                 `json:"matches"`
}

// Workspace pairs an editor with the text being highlighted.
type Workspace struct {
	id     string
	editor *editor.Editor
	emit   func(Event)

	mu   sync.Mutex
	text string
	last domain.Configuration // configuration of the last published diff

	// deliver serialises onChange: editor hooks run outside the editor lock.
	deliver sync.Mutex
}

// ID returns the workspace identifier.
func (w *Workspace) ID() string {
	return w.id
}

// Editor returns the configuration editor of the workspace.
func (w *Workspace) Editor() *editor.Editor {
	return w.editor
}

// Text returns the current text.
func (w *Workspace) Text() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.text
}

// SetText replaces the text and publishes the new render.
func (w *Workspace) SetText(text string) Render {
	w.mu.Lock()
	w.text = text
	w.mu.Unlock()

	r := w.Render()
	w.emit(Event{Workspace: w.id, Type: EventRender, Data: r})
	return r
}

// Render highlights the current text against the current configuration.
func (w *Workspace) Render() Render {
	text := w.Text()
	segments := w.editor.Segments(text)
	return Render{
		Workspace: w.id,
		Text:      text,
		HTML:      highlight.RenderHTML(segments),
		Segments:  segments,
		Matches:   highlight.Matches(segments),
	}
}

// onChange runs after every accepted mutation: it publishes the configuration diff,
// then the re-rendered text. Hooks of concurrent mutations may arrive out of order,
// so the diff is taken against the editor's current configuration rather than the
// hook's snapshot; a late hook then finds nothing new and last never moves backwards.
// Observers must not mutate the workspace synchronously.
func (w *Workspace) onChange(_ context.Context, _ domain.Configuration) {
	w.deliver.Lock()
	defer w.deliver.Unlock()

	cfg := w.editor.Configuration()
	w.mu.Lock()
	prev := w.last
	w.last = cfg
	w.mu.Unlock()

	if diff := domain.Diff(&prev, &cfg); diff != nil {
		diff.Workspace = w.id
		w.emit(Event{Workspace: w.id, Type: EventConfig, Data: diff})
	}
	w.emit(Event{Workspace: w.id, Type: EventRender, Data: w.Render()})
}
