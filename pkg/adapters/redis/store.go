package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/flowmap/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the layout store.
const DefaultPrefix = "flowmap:layout:"

// LayoutStore implements ports.LayoutStore using Redis.
type LayoutStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*LayoutStore)

// WithTTL sets the expiration for layouts.
func WithTTL(ttl time.Duration) Option {
	return func(s *LayoutStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for layouts.
func WithPrefix(prefix string) Option {
	return func(s *LayoutStore) {
		s.prefix = prefix
	}
}

// New creates a new Redis layout store with options.
func New(address, password string, db int, opts ...Option) *LayoutStore {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis layout store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *LayoutStore {
	store := &LayoutStore{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client, e.g. to share it with a Locker.
func (s *LayoutStore) Client() *backend.Client {
	return s.client
}

func (s *LayoutStore) key(workflowID string) string {
	return s.prefix + "wf:" + workflowID
}

func (s *LayoutStore) indexKey() string {
	return s.prefix + "index"
}

// SaveLayout persists the positions map to Redis as JSON.
func (s *LayoutStore) SaveLayout(ctx context.Context, workflowID string, positions domain.PositionsMap) error {
	if positions == nil {
		positions = domain.PositionsMap{}
	}
	data, err := json.Marshal(positions)
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}

	pipe := s.client.Pipeline()

	// Use 0 for no expiration if ttl is not set.
	pipe.Set(ctx, s.key(workflowID), data, s.ttl)

	// Score = Now + TTL. If TTL = 0, Score = far future.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}

	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: workflowID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save layout to redis: %w", err)
	}

	return nil
}

// LoadLayout retrieves the positions map from Redis.
func (s *LayoutStore) LoadLayout(ctx context.Context, workflowID string) (domain.PositionsMap, error) {
	val, err := s.client.Get(ctx, s.key(workflowID)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrLayoutNotFound
		}
		return nil, fmt.Errorf("failed to get layout from redis: %w", err)
	}

	positions := domain.PositionsMap{}
	if err := json.Unmarshal([]byte(val), &positions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal layout: %w", err)
	}

	return positions, nil
}

// DeleteLayout removes the layout and its index entry.
func (s *LayoutStore) DeleteLayout(ctx context.Context, workflowID string) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(workflowID))
	pipe.ZRem(ctx, s.indexKey(), workflowID)

	_, err := pipe.Exec(ctx)
	return err
}

// ListLayouts returns the workflow ids with a live layout.
// Expired entries are pruned from the index lazily.
func (s *LayoutStore) ListLayouts(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired layouts: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}

	return ids, nil
}

// Close closes the redis client.
func (s *LayoutStore) Close() error {
	return s.client.Close()
}
