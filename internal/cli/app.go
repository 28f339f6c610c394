package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	humanoid "github.com/natsuneko-laboratory/constraint-by-humanoid"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/config"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/logging"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/adapters/file"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/adapters/loam"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/adapters/memory"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/adapters/redis"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/observability"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/persistence/middleware"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/ports"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/workspace"
	"github.com/prometheus/client_golang/prometheus"
)

// Options are the process-level switches that sit outside the config file.
type Options struct {
	Debug bool
	// Registry, if set, receives the binder metrics.
	Registry prometheus.Registerer
}

// App holds everything a command needs, built once from the configuration.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Engine  *humanoid.Engine
	Metrics *observability.Metrics
	Scenes  *workspace.Manager

	library *loam.Library
	closers []io.Closer
}

// NewApp wires logger, engine, store and workspace from cfg.
func NewApp(cfg *config.Config, opts Options) (*App, error) {
	app := &App{Config: cfg}

	logger, closer := createLogger(cfg, opts.Debug)
	app.Logger = logger
	app.closers = append(app.closers, closer)

	engineOpts, err := cfg.EngineOptions()
	if err != nil {
		app.Close()
		return nil, err
	}
	hooks := domain.LifecycleHooks{}
	if opts.Debug {
		hooks = createDebugHooks(logger)
	}
	if opts.Registry != nil {
		app.Metrics, err = observability.NewMetrics(opts.Registry)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		hooks = hooks.Merge(app.Metrics.Hooks())
	}
	engineOpts = append(engineOpts,
		humanoid.WithLogger(logger),
		humanoid.WithLifecycleHooks(hooks),
	)
	app.Engine = humanoid.New(engineOpts...)

	store, wsOpts := app.createStore()
	store = middleware.Chain(store,
		middleware.NewLoggingMiddleware(logger),
		middleware.NewTimeoutMiddleware(cfg.Store.Timeout),
	)
	wsOpts = append(wsOpts, workspace.WithLogger(logger))
	app.Scenes = workspace.NewManager(store, app.Engine, wsOpts...)

	return app, nil
}

// createLogger configures the application logger.
// Debug forces the debug level; output goes to Stderr to keep Stdout for reports.
func createLogger(cfg *config.Config, debug bool) (*slog.Logger, io.Closer) {
	level := cfg.Level()
	if debug {
		level = slog.LevelDebug
	}
	return logging.NewWithFile(level, cfg.Log.File)
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnApplied: func(ctx context.Context, c domain.ConstraintSpec) {
			logger.DebugContext(ctx, "Constraint Applied", "role", c.Role, "target", c.Target, "source", c.Source)
		},
		OnWarning: func(ctx context.Context, w domain.Warning) {
			logger.DebugContext(ctx, "Role Warned", "role", w.Role, "code", w.Code)
		},
		OnSkip: func(ctx context.Context, s domain.Skip) {
			logger.DebugContext(ctx, "Role Skipped", "role", s.Role, "reason", s.Reason)
		},
	}
}

func (a *App) createStore() (ports.SceneStore, []workspace.Option) {
	switch a.Config.Store.Backend {
	case config.BackendFile:
		a.Logger.Info("Using file scene store", "dir", a.Config.Store.File.Dir)
		return file.New(a.Config.Store.File.Dir), nil
	case config.BackendRedis:
	default:
		return memory.NewStore(), nil
	}

	rc := a.Config.Store.Redis
	opts := []redis.Option{redis.WithPrefix(rc.Prefix)}
	if rc.TTL > 0 {
		opts = append(opts, redis.WithTTL(rc.TTL))
	}
	store := redis.New(rc.Address, rc.Password, rc.DB, opts...)
	a.closers = append(a.closers, store)
	a.Logger.Info("Using Redis scene store", "address", rc.Address, "prefix", rc.Prefix)

	var wsOpts []workspace.Option
	if rc.Lock {
		wsOpts = append(wsOpts,
			workspace.WithLocker(redis.NewLocker(store.Client(), rc.Prefix)),
			workspace.WithLockTTL(rc.LockTTL),
		)
	}
	return store, wsOpts
}

// Library opens the configured scene library. It returns nil when none is configured.
func (a *App) Library() (*loam.Library, error) {
	if a.library != nil || a.Config.Library.Dir == "" {
		return a.library, nil
	}
	lib, err := loam.Open(a.Config.Library.Dir)
	if err != nil {
		return nil, err
	}
	a.library = lib
	return lib, nil
}

// Close releases the log file and store connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && a.Logger != nil {
			a.Logger.Warn("Close failed", "err", err)
		}
	}
	a.closers = nil
}
