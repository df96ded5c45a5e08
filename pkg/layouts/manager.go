package layouts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/flowmap/internal/logging"
	"github.com/aretw0/flowmap/pkg/diagram"
	"github.com/aretw0/flowmap/pkg/domain"
	"github.com/aretw0/flowmap/pkg/observability"
	"github.com/aretw0/flowmap/pkg/ports"
)

// ErrReadOnlySource is returned by SaveTransitions when the source cannot store definitions.
var ErrReadOnlySource = errors.New("transition source is read-only")

const (
	DefaultLockTTL        = 30 * time.Second
	DefaultPersistTimeout = 5 * time.Second
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates diagram assembly and layout persistence for many workflows.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	source ports.TransitionSource
	store  ports.LayoutStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker         ports.DistributedLocker // Optional distributed locker
	lockTTL        time.Duration
	persistTimeout time.Duration
	pending        sync.WaitGroup // In-flight PersistAsync calls

	// PersistAsync ordering: seq grows across all workflows, latest holds the
	// newest queued seq per workflow. Older saves found behind a newer one are skipped.
	seq       uint64
	latest    map[string]uint64
	persisted []func(workflowID string)

	logger  *slog.Logger
	metrics *observability.Metrics

	mode   diagram.Mode
	layout []diagram.LayoutOption
	strict bool
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets how long a distributed lock may be held before it expires.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithPersistTimeout bounds each PersistAsync save.
func WithPersistTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.persistTimeout = d
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics records builds, saves and dangling edges.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithMode selects how saved and computed positions combine.
func WithMode(mode diagram.Mode) Option {
	return func(m *Manager) {
		m.mode = mode
	}
}

// WithLayoutOptions forwards spacing options to the layout engine.
func WithLayoutOptions(opts ...diagram.LayoutOption) Option {
	return func(m *Manager) {
		m.layout = append(m.layout, opts...)
	}
}

// WithStrict makes Diagram fail when an edge endpoint has no node.
func WithStrict(strict bool) Option {
	return func(m *Manager) {
		m.strict = strict
	}
}

// NewManager creates a new layout Manager.
func NewManager(source ports.TransitionSource, store ports.LayoutStore, opts ...Option) *Manager {
	m := &Manager{
		source:         source,
		store:          store,
		locks:          make(map[string]*lockEntry),
		latest:         make(map[string]uint64),
		lockTTL:        DefaultLockTTL,
		persistTimeout: DefaultPersistTimeout,
		logger:         logging.NewNop(), // Default to no-op
		mode:           diagram.ModeSavedOnly,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Source returns the underlying transition source.
func (m *Manager) Source() ports.TransitionSource {
	return m.source
}

// Store returns the underlying layout store.
func (m *Manager) Store() ports.LayoutStore {
	return m.store
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(workflowID) after unlocking.
func (m *Manager) acquire(workflowID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[workflowID]
	if !exists {
		entry = &lockEntry{}
		m.locks[workflowID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(workflowID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[workflowID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, workflowID)
	}
}

// activeLocks reports how many workflows currently hold a lock entry.
func (m *Manager) activeLocks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

// WithLock executes fn while holding the lock for the workflow.
func (m *Manager) WithLock(ctx context.Context, workflowID string, fn func(context.Context) error) error {
	entry := m.acquire(workflowID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(workflowID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, workflowID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"workflow_id", workflowID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// SaveLayout replaces the saved positions of a workflow.
// Background saves queued before it are superseded.
func (m *Manager) SaveLayout(ctx context.Context, workflowID string, positions domain.PositionsMap) error {
	seq := m.enqueue(workflowID)
	defer m.done(workflowID, seq)

	err := m.WithLock(ctx, workflowID, func(ctx context.Context) error {
		return m.store.SaveLayout(ctx, workflowID, positions)
	})
	m.metrics.ObserveSave(err)
	if err != nil {
		return fmt.Errorf("failed to save layout: %w", err)
	}
	m.logger.Debug("layout saved", "workflow_id", workflowID, "nodes", len(positions))
	return nil
}

// LoadLayout retrieves the saved positions of a workflow.
func (m *Manager) LoadLayout(ctx context.Context, workflowID string) (domain.PositionsMap, error) {
	var positions domain.PositionsMap
	err := m.WithLock(ctx, workflowID, func(ctx context.Context) error {
		var err error
		positions, err = m.store.LoadLayout(ctx, workflowID)
		return err
	})
	return positions, err
}

// DeleteLayout forgets the saved positions so the next diagram is computed again.
// Background saves queued before it are superseded.
func (m *Manager) DeleteLayout(ctx context.Context, workflowID string) error {
	seq := m.enqueue(workflowID)
	defer m.done(workflowID, seq)

	return m.WithLock(ctx, workflowID, func(ctx context.Context) error {
		return m.store.DeleteLayout(ctx, workflowID)
	})
}

// ListLayouts delegates to the store.
func (m *Manager) ListLayouts(ctx context.Context) ([]string, error) {
	return m.store.ListLayouts(ctx)
}

// Transitions lists the transitions of a workflow.
func (m *Manager) Transitions(ctx context.Context, workflowID string) ([]domain.TransitionRecord, error) {
	transitions, err := m.source.ListTransitions(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transitions: %w", err)
	}
	return transitions, nil
}

// SaveTransitions stores a workflow definition when the source accepts writes.
func (m *Manager) SaveTransitions(ctx context.Context, workflowID string, transitions []domain.TransitionRecord) error {
	store, ok := m.source.(ports.TransitionStore)
	if !ok {
		return ErrReadOnlySource
	}
	if err := store.SaveTransitions(ctx, workflowID, transitions); err != nil {
		return fmt.Errorf("failed to save transitions: %w", err)
	}
	return nil
}

// PersistAsync saves positions in the background with a bounded timeout.
// It matches the diagram.Surface update callback: failures are logged, never returned.
// Calls for the same workflow keep their order: once a newer map is queued, an
// older one still waiting for the lock is dropped, so the last drag wins.
func (m *Manager) PersistAsync(workflowID string, positions domain.PositionsMap) {
	positions = positions.Clone()
	seq := m.enqueue(workflowID)

	m.pending.Add(1)
	go func() {
		defer m.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), m.persistTimeout)
		defer cancel()

		written := false
		err := m.WithLock(ctx, workflowID, func(ctx context.Context) error {
			if !m.isLatest(workflowID, seq) {
				return nil
			}
			if err := m.store.SaveLayout(ctx, workflowID, positions); err != nil {
				return err
			}
			written = true
			return nil
		})
		m.done(workflowID, seq)

		if err != nil {
			m.metrics.ObserveSave(err)
			m.logger.Error("failed to persist layout",
				"workflow_id", workflowID,
				"err", err,
			)
			return
		}
		if !written {
			m.logger.Debug("stale layout save skipped", "workflow_id", workflowID)
			return
		}
		m.metrics.ObserveSave(nil)
		m.logger.Debug("layout saved", "workflow_id", workflowID, "nodes", len(positions))
		m.notifyPersisted(workflowID)
	}()
}

func (m *Manager) enqueue(workflowID string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.latest[workflowID] = m.seq
	return m.seq
}

func (m *Manager) isLatest(workflowID string, seq uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest[workflowID] == seq
}

// done forgets the workflow once its newest save has finished.
func (m *Manager) done(workflowID string, seq uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.latest[workflowID] == seq {
		delete(m.latest, workflowID)
	}
}

// OnPersisted registers fn to run after a PersistAsync save reaches the store.
// fn runs on the saving goroutine and must not block.
func (m *Manager) OnPersisted(fn func(workflowID string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persisted = append(m.persisted, fn)
}

func (m *Manager) notifyPersisted(workflowID string) {
	m.mu.Lock()
	hooks := make([]func(string), len(m.persisted))
	copy(hooks, m.persisted)
	m.mu.Unlock()

	for _, fn := range hooks {
		fn(workflowID)
	}
}

// Wait blocks until every pending PersistAsync call has finished.
func (m *Manager) Wait() {
	m.pending.Wait()
}
