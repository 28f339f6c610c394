package middleware

import (
	"context"
	"time"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/ports"
)

type timeoutMiddleware struct {
	next    ports.SceneStore
	timeout time.Duration
}

// NewTimeoutMiddleware bounds every store call by d. A non-positive d disables it.
func NewTimeoutMiddleware(d time.Duration) Middleware {
	return func(next ports.SceneStore) ports.SceneStore {
		if d <= 0 {
			return next
		}
		return &timeoutMiddleware{next: next, timeout: d}
	}
}

func (m *timeoutMiddleware) Save(ctx context.Context, sceneID string, scene *domain.Scene) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.next.Save(ctx, sceneID, scene)
}

func (m *timeoutMiddleware) Load(ctx context.Context, sceneID string) (*domain.Scene, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.next.Load(ctx, sceneID)
}

func (m *timeoutMiddleware) Delete(ctx context.Context, sceneID string) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.next.Delete(ctx, sceneID)
}

func (m *timeoutMiddleware) List(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.next.List(ctx)
}
