package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.SceneStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store call at debug level and failures at warn.
// A missing scene is an expected outcome and stays at debug.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.SceneStore) ports.SceneStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(ctx context.Context, op, sceneID string, started time.Time, err error) {
	attrs := []any{"op", op, "duration", time.Since(started)}
	if sceneID != "" {
		attrs = append(attrs, "scene", sceneID)
	}
	if err != nil && !errors.Is(err, domain.ErrSceneNotFound) {
		m.logger.WarnContext(ctx, "Scene store call failed", append(attrs, "err", err)...)
		return
	}
	m.logger.DebugContext(ctx, "Scene store call", attrs...)
}

func (m *loggingMiddleware) Save(ctx context.Context, sceneID string, scene *domain.Scene) error {
	started := time.Now()
	err := m.next.Save(ctx, sceneID, scene)
	m.log(ctx, "save", sceneID, started, err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, sceneID string) (*domain.Scene, error) {
	started := time.Now()
	scene, err := m.next.Load(ctx, sceneID)
	m.log(ctx, "load", sceneID, started, err)
	return scene, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, sceneID string) error {
	started := time.Now()
	err := m.next.Delete(ctx, sceneID)
	m.log(ctx, "delete", sceneID, started, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	started := time.Now()
	ids, err := m.next.List(ctx)
	m.log(ctx, "list", "", started, err)
	return ids, err
}
