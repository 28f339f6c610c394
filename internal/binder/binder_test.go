package binder_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/binder"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type attachment struct {
	Target, Source domain.NodeID
	Kind           domain.ConstraintKind
	Weight         float64
}

// fakeHost records attachments per node and answers Has from them.
type fakeHost struct {
	attached []attachment
	existing map[domain.NodeID]map[domain.ConstraintKind]bool
	failOn   domain.NodeID
}

func newFakeHost() *fakeHost {
	return &fakeHost{existing: make(map[domain.NodeID]map[domain.ConstraintKind]bool)}
}

func (h *fakeHost) capabilities() ports.Capabilities {
	caps := ports.Capabilities{}
	for _, kind := range domain.ConstraintKinds() {
		caps[kind] = ports.Capability{
			TypeName: kind.TypeName(),
			Attach: func(target, source domain.NodeID, weight float64) error {
				if target == h.failOn {
					return errors.New("node vanished")
				}
				h.attached = append(h.attached, attachment{target, source, kind, weight})
				if h.existing[target] == nil {
					h.existing[target] = make(map[domain.ConstraintKind]bool)
				}
				h.existing[target][kind] = true
				return nil
			},
			Has: func(target domain.NodeID) bool {
				return h.existing[target][kind]
			},
			Name: func(id domain.NodeID) string {
				return "Name:" + string(id)
			},
		}
	}
	return caps
}

func binding(root domain.NodeID, roles ...domain.BoneRole) domain.RoleBinding {
	m := make(map[domain.BoneRole]domain.NodeID, len(roles))
	for _, r := range roles {
		m[r] = root + "/" + domain.NodeID(r.String())
	}
	return domain.NewRoleBinding(root, m)
}

func spec(role domain.BoneRole, kind domain.ConstraintKind) domain.ConstraintSpec {
	return domain.ConstraintSpec{
		Role:   role,
		Target: "dst/" + domain.NodeID(role.String()),
		Source: "src/" + domain.NodeID(role.String()),
		Kind:   kind,
		Weight: 1.0,
		Active: true,
	}
}

func TestBind_PartialDestination(t *testing.T) {
	host := newFakeHost()
	src := binding("src", domain.RoleHips, domain.RoleSpine, domain.RoleLeftHand)
	dst := binding("dst", domain.RoleHips, domain.RoleSpine)

	report, err := binder.New().Bind(context.Background(), src, dst, nil, domain.KindRotation, host.capabilities())
	require.NoError(t, err)

	want := []domain.ConstraintSpec{spec(domain.RoleHips, domain.KindRotation), spec(domain.RoleSpine, domain.KindRotation)}
	if diff := cmp.Diff(want, report.Applied); diff != "" {
		t.Errorf("applied mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, report.Warnings)
	assert.Contains(t, report.Skips, domain.Skip{Role: domain.RoleLeftHand, Reason: domain.SkipAbsentInDestination})
	assert.Equal(t, domain.NodeID("src"), report.Source)
	assert.Equal(t, domain.NodeID("dst"), report.Destination)
	assert.Len(t, host.attached, 2)
	assert.Equal(t, 1.0, host.attached[0].Weight)
}

func TestBind_Exclusion(t *testing.T) {
	host := newFakeHost()
	src := binding("src", domain.RoleHips, domain.RoleSpine, domain.RoleLeftHand)
	dst := binding("dst", domain.RoleHips, domain.RoleSpine)
	excluded := domain.NewExclusionSet("src/Spine")

	report, err := binder.New().Bind(context.Background(), src, dst, excluded, domain.KindRotation, host.capabilities())
	require.NoError(t, err)

	if diff := cmp.Diff([]domain.ConstraintSpec{spec(domain.RoleHips, domain.KindRotation)}, report.Applied); diff != "" {
		t.Errorf("applied mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, report.Warnings, "exclusion is silent")
	assert.Equal(t, 1, report.SkipCount(domain.SkipExcluded))
	assert.Contains(t, report.Skips, domain.Skip{Role: domain.RoleSpine, Reason: domain.SkipExcluded})
	assert.Contains(t, report.Skips, domain.Skip{Role: domain.RoleLeftHand, Reason: domain.SkipAbsentInDestination})
}

func TestBind_ExcludedNodesNeverAppear(t *testing.T) {
	all := domain.CanonicalRoles()
	src := binding("src", all...)
	dst := binding("dst", all...)

	excluded := domain.NewExclusionSet("src/Head", "dst/LeftHand", "dst/RightIndexDistal", "src/Hips")
	host := newFakeHost()
	report, err := binder.New().Bind(context.Background(), src, dst, excluded, domain.KindParent, host.capabilities())
	require.NoError(t, err)

	assert.Len(t, report.Applied, len(all)-4)
	for _, s := range report.Applied {
		assert.False(t, excluded.Has(s.Source), "source %s is excluded", s.Source)
		assert.False(t, excluded.Has(s.Target), "target %s is excluded", s.Target)
	}
}

func TestBind_ExcludedDestinationWithExistingConstraintIsSilent(t *testing.T) {
	host := newFakeHost()
	host.existing["dst/Hips"] = map[domain.ConstraintKind]bool{domain.KindParent: true}

	report, err := binder.New().Bind(context.Background(),
		binding("src", domain.RoleHips), binding("dst", domain.RoleHips),
		domain.NewExclusionSet("dst/Hips"), domain.KindParent, host.capabilities())
	require.NoError(t, err)
	assert.Empty(t, report.Applied)
	assert.Empty(t, report.Warnings)
	assert.Equal(t, 1, report.SkipCount(domain.SkipExcluded))
}

func TestBind_AbsentDestinationNeverWarns(t *testing.T) {
	host := newFakeHost()
	src := binding("src", domain.CanonicalRoles()...)
	dst := binding("dst")

	report, err := binder.New().Bind(context.Background(), src, dst, nil, domain.KindAim, host.capabilities())
	require.NoError(t, err)
	assert.Empty(t, report.Applied)
	assert.Empty(t, report.Warnings)
	assert.Equal(t, len(domain.CanonicalRoles()), report.SkipCount(domain.SkipAbsentInDestination))
	assert.Zero(t, report.SkipCount(domain.SkipAbsentInSource))
}

func TestBind_Idempotent(t *testing.T) {
	host := newFakeHost()
	caps := host.capabilities()
	src := binding("src", domain.RoleHips)
	dst := binding("dst", domain.RoleHips)
	b := binder.New()

	first, err := b.Bind(context.Background(), src, dst, nil, domain.KindParent, caps)
	require.NoError(t, err)
	assert.Len(t, first.Applied, 1)
	assert.Empty(t, first.Warnings)

	second, err := b.Bind(context.Background(), src, dst, nil, domain.KindParent, caps)
	require.NoError(t, err)
	assert.Empty(t, second.Applied)
	require.Len(t, second.Warnings, 1)

	w := second.Warnings[0]
	assert.Equal(t, domain.RoleHips, w.Role)
	assert.Equal(t, domain.KindParent, w.Kind)
	assert.Equal(t, domain.WarningDuplicateConstraint, w.Code)
	assert.Equal(t, "The GameObject `Name:dst/Hips` has been skipped because it already has ParentConstraint.", w.Message)
	assert.Len(t, host.attached, 1)
}

func TestBind_IdempotentAcrossAllRoles(t *testing.T) {
	host := newFakeHost()
	caps := host.capabilities()
	src := binding("src", domain.CanonicalRoles()...)
	dst := binding("dst", domain.RoleHips, domain.RoleSpine, domain.RoleHead, domain.RoleLeftEye)

	first, err := binder.New().Bind(context.Background(), src, dst, nil, domain.KindLookAt, caps)
	require.NoError(t, err)
	second, err := binder.New().Bind(context.Background(), src, dst, nil, domain.KindLookAt, caps)
	require.NoError(t, err)

	assert.Len(t, first.Applied, 4)
	assert.Empty(t, second.Applied)
	require.Len(t, second.Warnings, len(first.Applied))
	for i, s := range first.Applied {
		assert.Equal(t, s.Role, second.Warnings[i].Role)
	}
}

func TestBind_OtherKindIsNotADuplicate(t *testing.T) {
	host := newFakeHost()
	caps := host.capabilities()
	src := binding("src", domain.RoleHips)
	dst := binding("dst", domain.RoleHips)

	_, err := binder.New().Bind(context.Background(), src, dst, nil, domain.KindPosition, caps)
	require.NoError(t, err)
	report, err := binder.New().Bind(context.Background(), src, dst, nil, domain.KindRotation, caps)
	require.NoError(t, err)
	assert.Len(t, report.Applied, 1)
	assert.Empty(t, report.Warnings)
}

func TestBind_SharedDestinationWarnsWithinOnePass(t *testing.T) {
	host := newFakeHost()
	src := binding("src", domain.RoleChest, domain.RoleUpperChest)
	dst := domain.NewRoleBinding("dst", map[domain.BoneRole]domain.NodeID{
		domain.RoleChest:      "dst/chest",
		domain.RoleUpperChest: "dst/chest",
	})

	report, err := binder.New().Bind(context.Background(), src, dst, nil, domain.KindRotation, host.capabilities())
	require.NoError(t, err)
	assert.Len(t, report.Applied, 1)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, domain.RoleUpperChest, report.Warnings[0].Role)
}

func TestBind_UnknownKind(t *testing.T) {
	host := newFakeHost()
	caps := host.capabilities()
	delete(caps, domain.KindScale)
	src := binding("src", domain.RoleHips)
	dst := binding("dst", domain.RoleHips)

	for _, kind := range []domain.ConstraintKind{domain.KindScale, domain.ConstraintKind(42)} {
		report, err := binder.New().Bind(context.Background(), src, dst, nil, kind, caps)
		assert.ErrorIs(t, err, domain.ErrUnknownConstraintKind)
		assert.Nil(t, report)
	}
	assert.Empty(t, host.attached, "nothing runs for an unsupported kind")
}

func TestBind_AttachFailureReturnsPartialReport(t *testing.T) {
	host := newFakeHost()
	host.failOn = "dst/Spine"
	src := binding("src", domain.RoleHips, domain.RoleSpine, domain.RoleHead)
	dst := binding("dst", domain.RoleHips, domain.RoleSpine, domain.RoleHead)

	report, err := binder.New().Bind(context.Background(), src, dst, nil, domain.KindRotation, host.capabilities())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node vanished")
	require.NotNil(t, report)
	assert.Len(t, report.Applied, 1, "no rollback of what was already attached")
	assert.Len(t, host.attached, 1)
}

func TestBind_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	host := newFakeHost()
	_, err := binder.New().Bind(ctx, binding("src", domain.RoleHips), binding("dst", domain.RoleHips), nil, domain.KindAim, host.capabilities())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, host.attached)
}

func TestBind_CancelMidPassCompletes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hooks := domain.LifecycleHooks{
		OnApplied: func(context.Context, domain.ConstraintSpec) { cancel() },
	}
	host := newFakeHost()
	src := binding("src", domain.RoleHips, domain.RoleSpine, domain.RoleHead)
	dst := binding("dst", domain.RoleHips, domain.RoleSpine, domain.RoleHead)

	report, err := binder.New(binder.WithHooks(hooks)).Bind(ctx, src, dst, nil, domain.KindParent, host.capabilities())
	require.NoError(t, err)
	require.Error(t, ctx.Err())
	require.Len(t, report.Applied, 3)
	assert.Equal(t, []domain.BoneRole{domain.RoleHips, domain.RoleSpine, domain.RoleHead},
		[]domain.BoneRole{report.Applied[0].Role, report.Applied[1].Role, report.Applied[2].Role})
	assert.Len(t, host.attached, 3)
}

func TestBind_CanonicalOrder(t *testing.T) {
	host := newFakeHost()
	all := domain.CanonicalRoles()
	report, err := binder.New().Bind(context.Background(), binding("src", all...), binding("dst", all...), nil, domain.KindScale, host.capabilities())
	require.NoError(t, err)
	require.Len(t, report.Applied, len(all))
	for i, s := range report.Applied {
		assert.Equal(t, all[i], s.Role)
	}
}

func TestBind_WithRoles(t *testing.T) {
	host := newFakeHost()
	all := domain.CanonicalRoles()
	b := binder.New(binder.WithRoles([]domain.BoneRole{domain.RoleHead, domain.RoleHips}))
	assert.Equal(t, []domain.BoneRole{domain.RoleHead, domain.RoleHips}, b.Roles())

	report, err := b.Bind(context.Background(), binding("src", all...), binding("dst", all...), nil, domain.KindAim, host.capabilities())
	require.NoError(t, err)
	require.Len(t, report.Applied, 2)
	assert.Equal(t, domain.RoleHead, report.Applied[0].Role)
}

func TestBind_HooksAndLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var applied, warned, skipped int
	hooks := domain.LifecycleHooks{
		OnApplied: func(context.Context, domain.ConstraintSpec) { applied++ },
		OnWarning: func(context.Context, domain.Warning) { warned++ },
		OnSkip:    func(context.Context, domain.Skip) { skipped++ },
	}

	host := newFakeHost()
	host.existing["dst/Spine"] = map[domain.ConstraintKind]bool{domain.KindAim: true}
	b := binder.New(binder.WithLogger(logger), binder.WithHooks(hooks))
	src := binding("src", domain.RoleHips, domain.RoleSpine, domain.RoleHead)
	dst := binding("dst", domain.RoleHips, domain.RoleSpine)

	_, err := b.Bind(context.Background(), src, dst, domain.NewExclusionSet("src/Hips"), domain.KindAim, host.capabilities())
	require.NoError(t, err)

	assert.Equal(t, 0, applied)
	assert.Equal(t, 1, warned)
	assert.Equal(t, len(domain.CanonicalRoles())-1, skipped)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "already has AimConstraint")
	assert.NotContains(t, out, "role skipped", "skips stay below WARN")
}
