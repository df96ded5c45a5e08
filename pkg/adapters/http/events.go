package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Change kinds carried by ChangeEvent.Type.
const (
	ChangeLayout      = "layout"
	ChangeTransitions = "transitions"
)

// ChangeEvent is pushed to /events subscribers when a workflow changes.
type ChangeEvent struct {
	Type       string `json:"type"`
	WorkflowID string `json:"workflowId"`
}

// eventBuffer bounds how far a subscriber may lag before events are dropped.
const eventBuffer = 16

// EventHub fans ChangeEvents out to the subscribers of each workflow.
type EventHub struct {
	mu     sync.Mutex
	subs   map[string]map[chan ChangeEvent]struct{}
	logger *slog.Logger
}

// NewEventHub creates an empty hub. Dropped events are reported to logger.
func NewEventHub(logger *slog.Logger) *EventHub {
	return &EventHub{
		subs:   make(map[string]map[chan ChangeEvent]struct{}),
		logger: logger,
	}
}

// Subscribe registers a listener for workflowID. The returned cancel func
// unregisters it and closes the channel; it is safe to call more than once.
func (h *EventHub) Subscribe(workflowID string) (<-chan ChangeEvent, func()) {
	ch := make(chan ChangeEvent, eventBuffer)

	h.mu.Lock()
	set, ok := h.subs[workflowID]
	if !ok {
		set = make(map[chan ChangeEvent]struct{})
		h.subs[workflowID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[workflowID], ch)
			if len(h.subs[workflowID]) == 0 {
				delete(h.subs, workflowID)
			}
			close(ch)
		})
	}
}

// Publish delivers ev to every subscriber of ev.WorkflowID without blocking
// and reports how many received it. Full subscribers miss the event.
func (h *EventHub) Publish(ev ChangeEvent) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for ch := range h.subs[ev.WorkflowID] {
		select {
		case ch <- ev:
			delivered++
		default:
			h.logger.Warn("event subscriber lagging, change dropped",
				"workflow_id", ev.WorkflowID,
				"type", ev.Type,
			)
		}
	}
	return delivered
}

// Subscribers reports how many listeners workflowID has.
func (h *EventHub) Subscribers(workflowID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[workflowID])
}

// SubscribeEvents handles GET /workflows/{workflowID}/events (SSE).
// Subscribers are told when the layout or the transitions of the workflow change,
// so open diagram surfaces know to reload.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	workflowID := chi.URLParam(r, "workflowID")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, cancel := s.Events.Subscribe(workflowID)
	defer cancel()

	s.logger.Debug("event stream opened", "workflow_id", workflowID)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("event stream closed", "workflow_id", workflowID)
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.logger.Error("event encode failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
