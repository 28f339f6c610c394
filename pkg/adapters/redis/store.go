package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "cbh:scene:"

// Store implements ports.SceneStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for scenes.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for scenes.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client returns the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(sceneID string) string {
	return s.prefix + sceneID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the scene to Redis as JSON and records it in the index.
func (s *Store) Save(ctx context.Context, sceneID string, scene *domain.Scene) error {
	data, err := json.Marshal(scene)
	if err != nil {
		return fmt.Errorf("failed to marshal scene: %w", err)
	}

	pipe := s.client.Pipeline()

	pipe.Set(ctx, s.key(sceneID), data, s.ttl)

	// Score = Now + TTL so List can prune expired members lazily.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}

	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: sceneID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}

	return nil
}

// Load retrieves the scene from Redis.
func (s *Store) Load(ctx context.Context, sceneID string) (*domain.Scene, error) {
	val, err := s.client.Get(ctx, s.key(sceneID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrSceneNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var scene domain.Scene
	if err := json.Unmarshal(val, &scene); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scene: %w", err)
	}
	if scene.Nodes == nil {
		scene.Nodes = make(map[domain.NodeID]*domain.Node)
	}

	return &scene, nil
}

// Delete removes the scene.
func (s *Store) Delete(ctx context.Context, sceneID string) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(sceneID))
	pipe.ZRem(ctx, s.indexKey(), sceneID)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns stored scenes, pruning index entries whose TTL has passed.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired scenes: %w", err)
	}

	scenes, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list scenes: %w", err)
	}

	return scenes, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
