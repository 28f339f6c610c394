package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/adapters/memory"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/persistence/middleware"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deadlineStore records whether calls carried a deadline and can be made to fail.
type deadlineStore struct {
	ports.SceneStore
	sawDeadline bool
	fail        error
}

func (s *deadlineStore) Load(ctx context.Context, sceneID string) (*domain.Scene, error) {
	_, s.sawDeadline = ctx.Deadline()
	if s.fail != nil {
		return nil, s.fail
	}
	return s.SceneStore.Load(ctx, sceneID)
}

func TestChain_Contract(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store := middleware.Chain(memory.NewStore(),
		middleware.NewLoggingMiddleware(logger),
		middleware.NewTimeoutMiddleware(time.Second),
	)
	ports.RunSceneStoreContract(t, store)

	assert.Contains(t, buf.String(), "op=save")
	assert.Contains(t, buf.String(), "op=list")
	assert.NotContains(t, buf.String(), "level=WARN", "a missing scene is not a failure")
}

func TestLoggingMiddleware_Failure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &deadlineStore{SceneStore: memory.NewStore(), fail: errors.New("connection refused")}

	store := middleware.NewLoggingMiddleware(logger)(inner)
	_, err := store.Load(context.Background(), "avatar")
	require.Error(t, err)

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "scene=avatar")
	assert.Contains(t, buf.String(), `err="connection refused"`)
}

func TestTimeoutMiddleware(t *testing.T) {
	inner := &deadlineStore{SceneStore: memory.NewStore()}

	_, _ = middleware.NewTimeoutMiddleware(time.Second)(inner).Load(context.Background(), "x")
	assert.True(t, inner.sawDeadline)

	store := middleware.NewTimeoutMiddleware(0)(inner)
	assert.Same(t, inner, store, "a zero timeout must not wrap")
	_, _ = store.Load(context.Background(), "x")
	assert.False(t, inner.sawDeadline)
}
