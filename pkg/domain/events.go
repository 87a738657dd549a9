package domain

import (
	"context"
	"time"
)

// SettingsChange is the payload sent to the diagram view for one keyword
// after its zone's color or shape changed.
type SettingsChange struct {
	Keyword string `json:"keyword"`
	Zone    string `json:"zone"`
	Shape   Shape  `json:"shape"`
	Color   string `json:"color"`
}

// MutationEvent describes a configuration mutation, accepted or rejected.
type MutationEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Op        string    `json:"op"`
	Zone      string    `json:"zone,omitempty"`
	Keyword   string    `json:"keyword,omitempty"`
	Err       error     `json:"-"`
}

// LifecycleHooks defines callbacks for editor observability.
// Hooks run after the editor lock is released; they may call back into the editor.
type LifecycleHooks struct {
	// OnChange runs after every accepted mutation with the new configuration.
	OnChange func(context.Context, Configuration)
	// OnMutation runs for every accepted mutation.
	OnMutation func(context.Context, *MutationEvent)
	// OnReject runs for every rejected mutation; Err is set.
	OnReject func(context.Context, *MutationEvent)
}
