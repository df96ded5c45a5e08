package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/flowmap/internal/logging"
	"github.com/aretw0/flowmap/pkg/adapters/file"
	flowhttp "github.com/aretw0/flowmap/pkg/adapters/http"
	"github.com/aretw0/flowmap/pkg/adapters/memory"
	"github.com/aretw0/flowmap/pkg/domain"
	"github.com/aretw0/flowmap/pkg/layouts"
	"github.com/aretw0/flowmap/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orders() domain.Workflow {
	return domain.Workflow{
		ID: "orders",
		Transitions: []domain.TransitionRecord{
			{ID: "t1", StartStateID: domain.NoneStateID, EndStateID: "draft", EndStateName: "Draft", Automated: true},
			{ID: "t2", Name: "Submit", StartStateID: "draft", EndStateID: "review", EndStateName: "Review", Persisted: true},
		},
	}
}

type fixture struct {
	handler http.Handler
	manager *layouts.Manager
	layouts *memory.LayoutStore
}

func newFixture(t *testing.T, opts ...layouts.Option) fixture {
	t.Helper()
	store := memory.NewLayoutStore()
	mgr := layouts.NewManager(memory.NewTransitionStore(orders()), store, opts...)
	return fixture{
		handler: flowhttp.NewHandler(mgr, flowhttp.WithMetrics(observability.NewMetrics())),
		manager: mgr,
		layouts: store,
	}
}

func (f fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodOptions, "/workflows/orders/layout", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetDiagram(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/workflows/orders/diagram?current=Draft", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var g domain.Graph
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	require.Len(t, g.Nodes, 3)
	require.Len(t, g.Edges, 2)

	byID := map[string]domain.StateNode{}
	for _, n := range g.Nodes {
		byID[n.ID] = n
	}
	assert.True(t, byID["draft"].IsCurrentState)
	assert.True(t, byID[domain.NoneStateID].IsNoneState)
	assert.Equal(t, domain.Position{X: 800, Y: 0}, byID["review"].Position)
	assert.Contains(t, w.Body.String(), `"isCurrentState":true`)
}

func TestGetDiagram_NotFound(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/workflows/ghost/diagram", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMermaid(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/workflows/orders/diagram.mmd?current=Review", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "graph LR"))
	assert.Contains(t, body, `draft -- "Submit" --> review`)
	assert.Contains(t, body, "class review current;")
}

func TestPutTransitions(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodPut, "/workflows/tickets/transitions",
		`{"transitions":[{"from":"open","to":"closed","isAutomated":"1"}]}`)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = f.do(http.MethodGet, "/workflows/tickets/edges/t1/selection", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"type":"edge","id":"t1","title":"⚡","persisted":false}`, w.Body.String())
}

func TestPutTransitions_BadBody(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPut, "/workflows/tickets/transitions", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPut, "/workflows/tickets/transitions", `{"transitions":[{"from":{"a":1}}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLayoutLifecycle(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/workflows/orders/layout", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodPut, "/workflows/orders/layout", `{"draft":{"x":10,"y":20}}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(http.MethodGet, "/workflows/orders/layout", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"draft":{"x":10,"y":20}}`, w.Body.String())

	w = f.do(http.MethodDelete, "/workflows/orders/layout", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(http.MethodGet, "/workflows/orders/layout", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPutLayout_BadBody(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPut, "/workflows/orders/layout", `null`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPut, "/workflows/orders/layout", `[1]`).Code)
}

func TestPostDrag(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodPost, "/workflows/orders/layout/drag",
		`{"nodes":[{"id":"draft","position":{"x":42,"y":7}}]}`)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var positions domain.PositionsMap
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &positions))
	assert.Equal(t, domain.Position{X: 42, Y: 7}, positions["draft"])
	assert.Len(t, positions, 3)

	f.manager.Wait()
	saved, err := f.layouts.LoadLayout(context.Background(), "orders")
	require.NoError(t, err)
	assert.Equal(t, positions, saved)
}

func TestSelection(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/workflows/orders/nodes/review/selection", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"type":"node","id":"review","title":"Review","persisted":true}`, w.Body.String())

	w = f.do(http.MethodGet, "/workflows/orders/edges/t2/selection", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"type":"edge","id":"t2","title":"Submit","persisted":true}`, w.Body.String())

	w = f.do(http.MethodGet, "/workflows/orders/nodes/nope/selection", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStrictDanglingEdges(t *testing.T) {
	store := memory.NewTransitionStore(domain.Workflow{
		ID:          "broken",
		Transitions: []domain.TransitionRecord{{ID: "t1", StartStateID: "", EndStateID: "a"}},
	})
	mgr := layouts.NewManager(store, memory.NewLayoutStore(), layouts.WithStrict(true))
	handler := flowhttp.NewHandler(mgr)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/workflows/broken/diagram", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "missing source state")
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)

	noMetrics := flowhttp.NewHandler(f.manager)
	rec := httptest.NewRecorder()
	noMetrics.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubscribeEvents(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/workflows/orders/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)

	// Subscription is registered before the ping is flushed.
	putReq, err := http.NewRequest(http.MethodPut, srv.URL+"/workflows/orders/layout", strings.NewReader(`{"draft":{"x":1,"y":1}}`))
	require.NoError(t, err)
	putResp, err := http.DefaultClient.Do(putReq)
	require.NoError(t, err)
	putResp.Body.Close()
	require.Equal(t, http.StatusNoContent, putResp.StatusCode)

	for {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: {") {
			break
		}
	}
	assert.JSONEq(t, `{"type":"layout","workflowId":"orders"}`, strings.TrimPrefix(strings.TrimSpace(line), "data: "))
}

// delayedStore makes background saves observable: each save takes a while.
type delayedStore struct {
	*memory.LayoutStore
}

func (s delayedStore) SaveLayout(ctx context.Context, workflowID string, positions domain.PositionsMap) error {
	time.Sleep(50 * time.Millisecond)
	return s.LayoutStore.SaveLayout(ctx, workflowID, positions)
}

func readChange(t *testing.T, reader *bufio.Reader) flowhttp.ChangeEvent {
	t.Helper()
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: {") {
			var ev flowhttp.ChangeEvent
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &ev))
			return ev
		}
	}
}

func TestPostDrag_EventFollowsSave(t *testing.T) {
	store := delayedStore{memory.NewLayoutStore()}
	mgr := layouts.NewManager(memory.NewTransitionStore(orders()), store)
	srv := httptest.NewServer(flowhttp.NewHandler(mgr))
	defer srv.Close()
	defer mgr.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/workflows/orders/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "event: ping\n", line)

	dragResp, err := http.Post(srv.URL+"/workflows/orders/layout/drag", "application/json",
		strings.NewReader(`{"nodes":[{"id":"draft","position":{"x":42,"y":7}}]}`))
	require.NoError(t, err)
	dragResp.Body.Close()
	require.Equal(t, http.StatusAccepted, dragResp.StatusCode)

	ev := readChange(t, reader)
	assert.Equal(t, flowhttp.ChangeEvent{Type: flowhttp.ChangeLayout, WorkflowID: "orders"}, ev)

	// Reloading on the event sees the dragged layout.
	getResp, err := http.Get(srv.URL + "/workflows/orders/layout")
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var saved domain.PositionsMap
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&saved))
	assert.Equal(t, domain.Position{X: 42, Y: 7}, saved["draft"])
}

func TestEventHub(t *testing.T) {
	hub := flowhttp.NewEventHub(logging.NewNop())

	events, cancel := hub.Subscribe("orders")
	other, cancelOther := hub.Subscribe("billing")
	defer cancelOther()
	assert.Equal(t, 1, hub.Subscribers("orders"))

	ev := flowhttp.ChangeEvent{Type: flowhttp.ChangeTransitions, WorkflowID: "orders"}
	assert.Equal(t, 1, hub.Publish(ev))
	assert.Equal(t, ev, <-events)
	assert.Empty(t, other, "events stay within their workflow")

	cancel()
	cancel()
	_, open := <-events
	assert.False(t, open)
	assert.Equal(t, 0, hub.Subscribers("orders"))
	assert.Equal(t, 0, hub.Publish(ev))
}

func TestEventHub_DropsForLaggingSubscriber(t *testing.T) {
	hub := flowhttp.NewEventHub(logging.NewNop())
	_, cancel := hub.Subscribe("orders")
	defer cancel()

	ev := flowhttp.ChangeEvent{Type: flowhttp.ChangeLayout, WorkflowID: "orders"}
	delivered := 0
	for i := 0; i < 100; i++ {
		delivered += hub.Publish(ev)
	}
	assert.Less(t, delivered, 100)
	assert.Positive(t, delivered)
}

func TestLayout_InvalidWorkflowID(t *testing.T) {
	mgr := layouts.NewManager(memory.NewTransitionStore(orders()), file.NewLayoutStore(t.TempDir()))
	handler := flowhttp.NewHandler(mgr)

	req := httptest.NewRequest(http.MethodPut, "/workflows/../layout", strings.NewReader(`{"draft":{"x":1,"y":1}}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/workflows/../layout", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}
