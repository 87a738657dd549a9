package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/surligne/pkg/domain"
)

// Notifier implements ports.Notifier by recording every change in memory.
// Safe for concurrent use.
type Notifier struct {
	mu      sync.Mutex
	changes []domain.SettingsChange
	signal  chan struct{}
}

// NewNotifier creates a new recording notifier.
func NewNotifier() *Notifier {
	return &Notifier{signal: make(chan struct{}, 1)}
}

// Notify records the changes.
func (n *Notifier) Notify(ctx context.Context, changes []domain.SettingsChange) error {
	if len(changes) == 0 {
		return nil
	}
	n.mu.Lock()
	n.changes = append(n.changes, changes...)
	n.mu.Unlock()

	select {
	case n.signal <- struct{}{}:
	default:
	}
	return nil
}

// Changes returns a copy of everything recorded so far.
func (n *Notifier) Changes() []domain.SettingsChange {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.changes)
}

// Reset forgets recorded changes.
func (n *Notifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = nil
}

// Wait blocks until at least count changes are recorded or the timeout expires,
// and returns what was recorded.
func (n *Notifier) Wait(count int, timeout time.Duration) []domain.SettingsChange {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		if got := n.Changes(); len(got) >= count {
			return got
		}
		select {
		case <-n.signal:
		case <-deadline.C:
			return n.Changes()
		}
	}
}
