package domain

import "context"

// LifecycleHooks defines callbacks for binder observability.
// Every field is optional.
type LifecycleHooks struct {
	OnApplied func(context.Context, ConstraintSpec)
	OnWarning func(context.Context, Warning)
	OnSkip    func(context.Context, Skip)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnApplied: chain(h.OnApplied, other.OnApplied),
		OnWarning: chain(h.OnWarning, other.OnWarning),
		OnSkip:    chain(h.OnSkip, other.OnSkip),
	}
}

func chain[T any](a, b func(context.Context, T)) func(context.Context, T) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, v T) {
		a(ctx, v)
		b(ctx, v)
	}
}
