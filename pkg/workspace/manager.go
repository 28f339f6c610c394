package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	humanoid "github.com/natsuneko-laboratory/constraint-by-humanoid"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/logging"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed holder can block a scene on other instances.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates scene access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store  ports.SceneStore
	engine *humanoid.Engine

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL for distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a Manager over store. A nil engine uses humanoid.New().
func NewManager(store ports.SceneStore, engine *humanoid.Engine, opts ...Option) *Manager {
	if engine == nil {
		engine = humanoid.New()
	}
	m := &Manager{
		store:   store,
		engine:  engine,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Engine returns the engine used by Apply and Plan.
func (m *Manager) Engine() *humanoid.Engine {
	return m.engine
}

// Store returns the underlying scene store.
func (m *Manager) Store() ports.SceneStore {
	return m.store
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sceneID) after unlocking.
func (m *Manager) acquire(sceneID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sceneID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sceneID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sceneID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sceneID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sceneID)
	}
}

// Load retrieves a scene from the store.
func (m *Manager) Load(ctx context.Context, sceneID string) (*domain.Scene, error) {
	var scene *domain.Scene
	err := m.WithLock(ctx, sceneID, func(ctx context.Context) error {
		var err error
		scene, err = m.store.Load(ctx, sceneID)
		return err
	})
	return scene, err
}

// Save persists a scene under sceneID.
func (m *Manager) Save(ctx context.Context, sceneID string, scene *domain.Scene) error {
	if scene == nil {
		return fmt.Errorf("%w: nil scene", domain.ErrInvalidScene)
	}
	return m.WithLock(ctx, sceneID, func(ctx context.Context) error {
		return m.store.Save(ctx, sceneID, scene)
	})
}

// Create stores scene under a new random ID and returns it.
// The scene's own ID is rewritten to match.
func (m *Manager) Create(ctx context.Context, scene *domain.Scene) (string, error) {
	if scene == nil {
		return "", fmt.Errorf("%w: nil scene", domain.ErrInvalidScene)
	}
	id := uuid.NewString()
	scene.ID = id
	if err := m.Save(ctx, id, scene); err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes the scene from the store.
func (m *Manager) Delete(ctx context.Context, sceneID string) error {
	return m.WithLock(ctx, sceneID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sceneID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Apply loads the scene, runs the engine on it and saves the result, all under the scene lock.
// Nothing is saved when the request is refused. When binding fails part way the constraints
// already attached are saved together with the partial report.
func (m *Manager) Apply(ctx context.Context, sceneID string, req humanoid.ApplyRequest) (*domain.Report, error) {
	var report *domain.Report
	err := m.WithLock(ctx, sceneID, func(ctx context.Context) error {
		scene, err := m.store.Load(ctx, sceneID)
		if err != nil {
			return err
		}

		var applyErr error
		report, applyErr = m.engine.Apply(ctx, scene, req)
		if report == nil || len(report.Applied) == 0 {
			return applyErr
		}

		if err := m.store.Save(ctx, sceneID, scene); err != nil {
			return errors.Join(applyErr, fmt.Errorf("failed to save scene %s: %w", sceneID, err))
		}
		m.logger.DebugContext(ctx, "scene saved", "scene_id", sceneID, "applied", len(report.Applied))
		return applyErr
	})
	return report, err
}

// Plan loads the scene and reports what Apply would do. The stored scene is untouched.
func (m *Manager) Plan(ctx context.Context, sceneID string, req humanoid.ApplyRequest) (*domain.Report, error) {
	scene, err := m.Load(ctx, sceneID)
	if err != nil {
		return nil, err
	}
	return m.engine.Plan(ctx, scene, req)
}

// WithLock executes fn while holding the lock for the scene.
func (m *Manager) WithLock(ctx context.Context, sceneID string, fn func(context.Context) error) error {
	entry := m.acquire(sceneID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sceneID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sceneID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"scene_id", sceneID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
