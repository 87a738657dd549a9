package ports

import (
	"context"
	"errors"

	"github.com/aretw0/surligne/pkg/domain"
)

// Notifier is the diagram notification port. It is one-way: callers treat errors
// as diagnostics and never roll back the change that triggered the notification.
type Notifier interface {
	Notify(ctx context.Context, changes []domain.SettingsChange) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, changes []domain.SettingsChange) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, changes []domain.SettingsChange) error {
	return f(ctx, changes)
}

// Fanout delivers every notification to all its notifiers, even when some fail.
type Fanout []Notifier

// Notify calls every notifier and joins their errors.
func (f Fanout) Notify(ctx context.Context, changes []domain.SettingsChange) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, changes); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
