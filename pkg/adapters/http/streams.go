package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/surligne/pkg/workspace"
)

// streamEvent is one SSE frame.
type streamEvent struct {
	Type workspace.EventType
	Data string
}

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- streamEvent]struct{} // Workspace ID -> Set of Channels
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- streamEvent]struct{}),
		logger:      logger,
	}
}

func (sm *StreamManager) Subscribe(workspaceID string) (<-chan streamEvent, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan streamEvent, 10)
	if _, ok := sm.subscribers[workspaceID]; !ok {
		sm.subscribers[workspaceID] = make(map[chan<- streamEvent]struct{})
	}
	sm.subscribers[workspaceID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[workspaceID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, workspaceID)
			}
		}
	}
}

// Publish encodes a workspace event and broadcasts it to the workspace subscribers.
func (sm *StreamManager) Publish(e workspace.Event) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		sm.logger.Error("SSE: failed to encode event", "workspace", e.Workspace, "type", e.Type, "error", err)
		return
	}
	sm.Broadcast(e.Workspace, streamEvent{Type: e.Type, Data: string(data)})
}

func (sm *StreamManager) Broadcast(workspaceID string, msg streamEvent) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.logger.Debug("StreamManager: Broadcasting", "workspace", workspaceID, "type", msg.Type, "payload_size", len(msg.Data))

	for ch := range sm.subscribers[workspaceID] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "workspace", workspaceID)
		}
	}
}

// SubscribeEvents handles the GET /workspaces/{id}/events request (SSE).
// The optional watch query parameter filters event types, e.g. watch=render,settings.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}
	ws, ok := s.open(w, r)
	if !ok {
		return
	}

	var watch map[workspace.EventType]bool
	if raw := r.URL.Query().Get("watch"); raw != "" {
		watch = make(map[workspace.EventType]bool)
		for _, field := range strings.Split(raw, ",") {
			watch[workspace.EventType(strings.TrimSpace(field))] = true
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: Subscribing to workspace updates", "workspace", ws.ID())
	ch, cancel := s.Streams.Subscribe(ws.ID())
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "workspace", ws.ID())
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if watch != nil && !watch[msg.Type] {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Type, msg.Data)
			flusher.Flush()
		}
	}
}
