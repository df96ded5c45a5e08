package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/flowmap"
	"github.com/aretw0/flowmap/internal/dto"
	"github.com/aretw0/flowmap/internal/logging"
	"github.com/aretw0/flowmap/internal/presentation/graph"
	"github.com/aretw0/flowmap/pkg/domain"
	"github.com/aretw0/flowmap/pkg/layouts"
	"github.com/aretw0/flowmap/pkg/observability"
	"github.com/go-chi/chi/v5"
)

// Manager is the subset of layouts.Manager served over HTTP.
type Manager interface {
	Diagram(ctx context.Context, workflowID, currentStateName string) (domain.Graph, error)
	SaveTransitions(ctx context.Context, workflowID string, transitions []domain.TransitionRecord) error
	LoadLayout(ctx context.Context, workflowID string) (domain.PositionsMap, error)
	SaveLayout(ctx context.Context, workflowID string, positions domain.PositionsMap) error
	DeleteLayout(ctx context.Context, workflowID string) error
	DragEnd(ctx context.Context, workflowID string, nodes []domain.StateNode) (domain.PositionsMap, error)
	Select(ctx context.Context, workflowID string, kind domain.SelectionType, id string) (domain.SelectionDescriptor, error)
}

var _ Manager = (*layouts.Manager)(nil)

// Server holds the HTTP handlers.
type Server struct {
	Manager Manager
	Events  *EventHub

	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures the handler.
type Option func(*Server)

// WithLogger configures request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts GET /metrics for the given collectors.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = metrics
	}
}

// DragRequest is the body of POST /workflows/{workflowID}/layout/drag.
type DragRequest struct {
	Nodes []domain.StateNode `json:"nodes"`
}

// TransitionsRequest is the body of PUT /workflows/{workflowID}/transitions.
// Records may use any of the historical field names.
type TransitionsRequest struct {
	Transitions []map[string]any `json:"transitions"`
}

// persistNotifier is implemented by managers that save drags in the background.
type persistNotifier interface {
	OnPersisted(fn func(workflowID string))
}

// NewHandler creates a new HTTP handler for the layout manager.
func NewHandler(manager Manager, opts ...Option) http.Handler {
	s := &Server{
		Manager: manager,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Events = NewEventHub(s.logger)

	// Drag results are announced once they reach the store, not when queued.
	if n, ok := manager.(persistNotifier); ok {
		n.OnPersisted(func(workflowID string) {
			s.broadcast(ChangeLayout, workflowID)
		})
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/workflows/{workflowID}", func(r chi.Router) {
		r.Get("/diagram", s.GetDiagram)
		r.Get("/diagram.mmd", s.GetMermaid)
		r.Put("/transitions", s.PutTransitions)
		r.Get("/layout", s.GetLayout)
		r.Put("/layout", s.PutLayout)
		r.Delete("/layout", s.DeleteLayout)
		r.Post("/layout/drag", s.PostDrag)
		r.Get("/nodes/{nodeID}/selection", s.GetNodeSelection)
		r.Get("/edges/{edgeID}/selection", s.GetEdgeSelection)
		r.Get("/events", s.SubscribeEvents)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusFor maps sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrWorkflowNotFound),
		errors.Is(err, domain.ErrLayoutNotFound),
		errors.Is(err, domain.ErrElementNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDanglingEdge):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidSelection),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrInvalidWorkflowID):
		return http.StatusBadRequest
	case errors.Is(err, layouts.ErrReadOnlySource):
		return http.StatusMethodNotAllowed
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Debug(op+" rejected", "error", err, "status", status)
	}
	http.Error(w, err.Error(), status)
}

func (s *Server) writeJSON(w http.ResponseWriter, op string, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(op+" response encode failed", "error", err)
	}
}

func (s *Server) broadcast(kind, workflowID string) {
	s.Events.Publish(ChangeEvent{Type: kind, WorkflowID: workflowID})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, "GetHealth", http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, "GetInfo", http.StatusOK, map[string]string{
		"app":     "flowmap-http",
		"version": strings.TrimSpace(flowmap.Version),
	})
}

// GetDiagram handles GET /workflows/{workflowID}/diagram?current=<name>.
func (s *Server) GetDiagram(w http.ResponseWriter, r *http.Request) {
	g, err := s.Manager.Diagram(r.Context(), chi.URLParam(r, "workflowID"), r.URL.Query().Get("current"))
	if err != nil {
		s.fail(w, "GetDiagram", err)
		return
	}
	s.writeJSON(w, "GetDiagram", http.StatusOK, g)
}

// GetMermaid handles GET /workflows/{workflowID}/diagram.mmd?current=<name>.
func (s *Server) GetMermaid(w http.ResponseWriter, r *http.Request) {
	g, err := s.Manager.Diagram(r.Context(), chi.URLParam(r, "workflowID"), r.URL.Query().Get("current"))
	if err != nil {
		s.fail(w, "GetMermaid", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(g, nil)))
}

// PutTransitions handles PUT /workflows/{workflowID}/transitions.
func (s *Server) PutTransitions(w http.ResponseWriter, r *http.Request) {
	workflowID := chi.URLParam(r, "workflowID")

	var body TransitionsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PutTransitions: Invalid request body", "error", err)
		return
	}

	transitions, err := dto.DecodeTransitions(body.Transitions)
	if err != nil {
		s.fail(w, "PutTransitions", err)
		return
	}

	if err := s.Manager.SaveTransitions(r.Context(), workflowID, transitions); err != nil {
		s.fail(w, "PutTransitions", err)
		return
	}

	s.broadcast(ChangeTransitions, workflowID)
	w.WriteHeader(http.StatusNoContent)
}

// GetLayout handles GET /workflows/{workflowID}/layout.
func (s *Server) GetLayout(w http.ResponseWriter, r *http.Request) {
	positions, err := s.Manager.LoadLayout(r.Context(), chi.URLParam(r, "workflowID"))
	if err != nil {
		s.fail(w, "GetLayout", err)
		return
	}
	s.writeJSON(w, "GetLayout", http.StatusOK, positions)
}

// PutLayout handles PUT /workflows/{workflowID}/layout.
func (s *Server) PutLayout(w http.ResponseWriter, r *http.Request) {
	workflowID := chi.URLParam(r, "workflowID")

	var positions domain.PositionsMap
	if err := json.NewDecoder(r.Body).Decode(&positions); err != nil || positions == nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PutLayout: Invalid request body", "error", err)
		return
	}

	if err := s.Manager.SaveLayout(r.Context(), workflowID, positions); err != nil {
		s.fail(w, "PutLayout", err)
		return
	}

	s.broadcast(ChangeLayout, workflowID)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteLayout handles DELETE /workflows/{workflowID}/layout.
func (s *Server) DeleteLayout(w http.ResponseWriter, r *http.Request) {
	workflowID := chi.URLParam(r, "workflowID")

	if err := s.Manager.DeleteLayout(r.Context(), workflowID); err != nil {
		s.fail(w, "DeleteLayout", err)
		return
	}

	s.broadcast(ChangeLayout, workflowID)
	w.WriteHeader(http.StatusNoContent)
}

// PostDrag handles POST /workflows/{workflowID}/layout/drag.
// The positions are persisted in the background; the response carries the extracted map
// and subscribers hear about the change once the save lands.
func (s *Server) PostDrag(w http.ResponseWriter, r *http.Request) {
	workflowID := chi.URLParam(r, "workflowID")

	var body DragRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PostDrag: Invalid request body", "error", err)
		return
	}

	positions, err := s.Manager.DragEnd(r.Context(), workflowID, body.Nodes)
	if err != nil {
		s.fail(w, "PostDrag", err)
		return
	}

	s.writeJSON(w, "PostDrag", http.StatusAccepted, positions)
}

// GetNodeSelection handles GET /workflows/{workflowID}/nodes/{nodeID}/selection.
func (s *Server) GetNodeSelection(w http.ResponseWriter, r *http.Request) {
	s.selection(w, r, domain.SelectionNode, chi.URLParam(r, "nodeID"))
}

// GetEdgeSelection handles GET /workflows/{workflowID}/edges/{edgeID}/selection.
func (s *Server) GetEdgeSelection(w http.ResponseWriter, r *http.Request) {
	s.selection(w, r, domain.SelectionEdge, chi.URLParam(r, "edgeID"))
}

func (s *Server) selection(w http.ResponseWriter, r *http.Request, kind domain.SelectionType, id string) {
	sel, err := s.Manager.Select(r.Context(), chi.URLParam(r, "workflowID"), kind, id)
	if err != nil {
		s.fail(w, "Select", err)
		return
	}
	s.writeJSON(w, "Select", http.StatusOK, sel)
}
