// Package binder synthesizes constraints between two resolved skeletons.
package binder

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/ports"
)

// Binder walks the canonical roles and attaches one constraint per mapped pair.
// It holds no per-call state and never branches on host component types.
type Binder struct {
	roles  []domain.BoneRole
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option configures a Binder.
type Option func(*Binder)

// WithRoles overrides the role list and its order.
func WithRoles(roles []domain.BoneRole) Option {
	return func(b *Binder) {
		b.roles = append([]domain.BoneRole(nil), roles...)
	}
}

// WithLogger sets the structured logger. Warnings are logged at WARN, skips at DEBUG.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Binder) {
		b.hooks = hooks
	}
}

// New creates a Binder over the canonical role list.
func New(opts ...Option) *Binder {
	b := &Binder{
		roles:  domain.CanonicalRoles(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Roles returns the role list the binder iterates, in order.
func (b *Binder) Roles() []domain.BoneRole {
	return append([]domain.BoneRole(nil), b.roles...)
}

// Bind attaches a constraint of kind from each source node to the destination node of
// the same role. Roles absent on either side or touching an excluded node are skipped
// silently; destinations that already carry the kind are skipped with a warning.
//
// An unsupported kind or a done ctx fails before any role is visited. Once the pass
// starts it runs to completion, so a scene is never left half bound by cancellation.
// If the host fails to attach, Bind stops and returns the error along with everything
// applied so far.
func (b *Binder) Bind(ctx context.Context, src, dst domain.RoleBinding, excluded domain.ExclusionSet, kind domain.ConstraintKind, caps ports.Capabilities) (*domain.Report, error) {
	capability, ok := caps.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownConstraintKind, kind)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &domain.Report{
		Source:      src.Root(),
		Destination: dst.Root(),
		Kind:        kind,
		Applied:     []domain.ConstraintSpec{},
		Warnings:    []domain.Warning{},
		Skips:       []domain.Skip{},
	}

	for _, role := range b.roles {
		srcNode, srcOK := src.Get(role)
		dstNode, dstOK := dst.Get(role)
		switch {
		case !srcOK:
			b.skip(ctx, report, role, domain.SkipAbsentInSource)
			continue
		case !dstOK:
			b.skip(ctx, report, role, domain.SkipAbsentInDestination)
			continue
		case excluded.Has(srcNode) || excluded.Has(dstNode):
			b.skip(ctx, report, role, domain.SkipExcluded)
			continue
		}

		if capability.Has(dstNode) {
			w := domain.NewDuplicateWarning(role, dstNode, nodeName(capability, dstNode), kind)
			report.Warnings = append(report.Warnings, w)
			b.logger.WarnContext(ctx, w.Message, "role", role, "node", dstNode, "kind", kind)
			if b.hooks.OnWarning != nil {
				b.hooks.OnWarning(ctx, w)
			}
			continue
		}

		if err := capability.Attach(dstNode, srcNode, domain.DefaultWeight); err != nil {
			return report, fmt.Errorf("failed to attach %s to %s for %s: %w", capability.TypeName, dstNode, role, err)
		}

		spec := domain.ConstraintSpec{
			Role:   role,
			Target: dstNode,
			Source: srcNode,
			Kind:   kind,
			Weight: domain.DefaultWeight,
			Active: true,
		}
		report.Applied = append(report.Applied, spec)
		b.logger.DebugContext(ctx, "constraint attached", "role", role, "target", dstNode, "source", srcNode, "kind", kind)
		if b.hooks.OnApplied != nil {
			b.hooks.OnApplied(ctx, spec)
		}
	}

	return report, nil
}

func (b *Binder) skip(ctx context.Context, report *domain.Report, role domain.BoneRole, reason domain.SkipReason) {
	s := domain.Skip{Role: role, Reason: reason}
	report.Skips = append(report.Skips, s)
	b.logger.DebugContext(ctx, "role skipped", "role", role, "reason", reason)
	if b.hooks.OnSkip != nil {
		b.hooks.OnSkip(ctx, s)
	}
}

func nodeName(c ports.Capability, id domain.NodeID) string {
	if c.Name != nil {
		if name := c.Name(id); name != "" {
			return name
		}
	}
	return string(id)
}
