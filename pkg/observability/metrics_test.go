package observability

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	humanoid "github.com/natsuneko-laboratory/constraint-by-humanoid"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/dsl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	b := dsl.New("pair")
	b.Avatar("Source", domain.RoleHips, domain.RoleSpine, domain.RoleHead)
	b.Avatar("Destination", domain.RoleHips, domain.RoleSpine)
	scene := b.MustBuild()

	eng := humanoid.New(humanoid.WithLifecycleHooks(m.Hooks()))
	req := humanoid.ApplyRequest{Source: "Source", Destination: "Destination", Kind: domain.KindParent}

	_, err = eng.Apply(context.Background(), scene, req)
	require.NoError(t, err)
	_, err = eng.Apply(context.Background(), scene, req)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.applied.WithLabelValues("parent", "Hips")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.applied.WithLabelValues("parent", "Spine")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.warnings.WithLabelValues("parent", domain.WarningDuplicateConstraint)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.skips.WithLabelValues(string(domain.SkipAbsentInDestination))))

	count, err := testutil.GatherAndCount(reg, "cbh_constraints_applied_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
	assert.Panics(t, func() { MustNewMetrics(reg) })
}

func TestMetrics_ObservePass(t *testing.T) {
	m, err := NewMetrics(nil)
	require.NoError(t, err)

	m.ObservePass("apply", time.Now(), nil)
	m.ObservePass("apply", time.Now(), &domain.PreconditionError{Messages: []string{"Set the Source GameObject"}})

	assert.Equal(t, 2, testutil.CollectAndCount(m.passes))
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{&domain.PreconditionError{}, "refused"},
		{fmt.Errorf("bind: %w", domain.ErrUnknownConstraintKind), "unknown_kind"},
		{domain.ErrSceneNotFound, "not_found"},
		{context.Canceled, "canceled"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Outcome(tt.err))
	}
}
