package humanoid

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/binder"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/resolver"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/validator"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/host"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/ports"
)

// ApplyRequest selects the two skeleton roots, the nodes to leave alone and the kind to attach.
// An empty NodeID means the root was not set.
type ApplyRequest struct {
	Source      domain.NodeID         `json:"source" yaml:"source" mapstructure:"source"`
	Destination domain.NodeID         `json:"destination" yaml:"destination" mapstructure:"destination"`
	Exclude     []domain.NodeID       `json:"exclude,omitempty" yaml:"exclude,omitempty" mapstructure:"exclude"`
	Kind        domain.ConstraintKind `json:"kind" yaml:"kind" mapstructure:"kind"`
}

// Engine is the high-level entry point of the library.
// It gates, resolves and binds against a live scene.
type Engine struct {
	locator ports.BoneLocator
	family  host.Family
	roles   []domain.BoneRole
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	binder  *binder.Binder
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLocator replaces the default bone locator (humanoid description, then naming conventions).
func WithLocator(l ports.BoneLocator) Option {
	return func(e *Engine) {
		e.locator = l
	}
}

// WithFamily selects the constraint component family written to the scene.
func WithFamily(f host.Family) Option {
	return func(e *Engine) {
		e.family = f
	}
}

// WithRoles restricts resolution and binding to roles, in the given order.
func WithRoles(roles ...domain.BoneRole) Option {
	return func(e *Engine) {
		e.roles = append([]domain.BoneRole(nil), roles...)
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine. Without options it resolves bones through the humanoid
// description with a naming-convention fallback and writes VRChat constraints.
func New(opts ...Option) *Engine {
	e := &Engine{
		family: host.DefaultFamily,
		roles:  domain.CanonicalRoles(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.locator == nil {
		e.locator = resolver.Default()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	e.binder = binder.New(
		binder.WithRoles(e.roles),
		binder.WithLogger(e.logger),
		binder.WithHooks(e.hooks),
	)
	return e
}

// Family returns the constraint family the engine writes.
func (e *Engine) Family() host.Family {
	return e.family
}

// Roles returns the roles the engine visits, in order.
func (e *Engine) Roles() []domain.BoneRole {
	return append([]domain.BoneRole(nil), e.roles...)
}

// Validate returns the precondition messages for a pass between src and dst.
// An empty result means Apply may run. A nil scene yields a single message.
func (e *Engine) Validate(scene *domain.Scene, src, dst domain.NodeID) []string {
	return validator.Preconditions(scene, src, dst)
}

// Resolve maps the engine's roles onto the skeleton at root.
func (e *Engine) Resolve(scene *domain.Scene, root domain.NodeID) domain.RoleBinding {
	return resolver.Resolve(scene, root, e.locator, e.roles)
}

// Apply attaches constraints from the source skeleton to the destination skeleton,
// mutating scene. Failed preconditions return a *domain.PreconditionError and touch nothing.
func (e *Engine) Apply(ctx context.Context, scene *domain.Scene, req ApplyRequest) (*domain.Report, error) {
	if scene == nil {
		return nil, fmt.Errorf("%w: nil scene", domain.ErrInvalidScene)
	}
	if err := validator.Check(scene, req.Source, req.Destination); err != nil {
		return nil, err
	}
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrUnknownConstraintKind, int(req.Kind))
	}

	logger := e.logger.With("scene", scene.ID, "source", req.Source, "destination", req.Destination, "kind", req.Kind)

	src := e.Resolve(scene, req.Source)
	dst := e.Resolve(scene, req.Destination)
	logger.DebugContext(ctx, "skeletons resolved", "source_roles", src.Len(), "destination_roles", dst.Len())

	report, err := e.binder.Bind(ctx, src, dst, domain.NewExclusionSet(req.Exclude...), req.Kind, host.Capabilities(scene, e.family))
	if report != nil {
		report.Family = string(e.family)
	}
	if err != nil {
		return report, fmt.Errorf("failed to bind %s: %w", req.Kind, err)
	}

	logger.InfoContext(ctx, "constraints applied",
		"applied", len(report.Applied),
		"warnings", len(report.Warnings),
		"skipped", len(report.Skips))
	return report, nil
}

// Plan reports what Apply would do without modifying scene.
func (e *Engine) Plan(ctx context.Context, scene *domain.Scene, req ApplyRequest) (*domain.Report, error) {
	if scene == nil {
		return nil, fmt.Errorf("%w: nil scene", domain.ErrInvalidScene)
	}
	return e.Apply(ctx, scene.Clone(), req)
}

// ParseApplyRequest builds an ApplyRequest from caller-facing strings.
// kind accepts any form domain.ParseConstraintKind does; an empty kind is an error.
func ParseApplyRequest(source, destination string, exclude []string, kind string) (ApplyRequest, error) {
	k, err := domain.ParseConstraintKind(kind)
	if err != nil {
		return ApplyRequest{}, err
	}
	req := ApplyRequest{
		Source:      domain.NodeID(source),
		Destination: domain.NodeID(destination),
		Kind:        k,
	}
	for _, id := range exclude {
		if id != "" {
			req.Exclude = append(req.Exclude, domain.NodeID(id))
		}
	}
	return req, nil
}
