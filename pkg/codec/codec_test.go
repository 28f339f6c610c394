package codec_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	humanoid "github.com/natsuneko-laboratory/constraint-by-humanoid"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/codec"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFile(t *testing.T) {
	scene, err := codec.DecodeFile(filepath.Join("testdata", "avatars.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "avatars", scene.ID)
	assert.Equal(t, []domain.NodeID{"Source", "Destination", "Props"}, scene.Roots)

	src, ok := scene.Node("Source")
	require.True(t, ok)
	assert.True(t, src.HasAnimator())
	assert.Equal(t, map[domain.BoneRole]domain.NodeID{
		domain.RoleHips:     "Source/Armature/Hips",
		domain.RoleSpine:    "Source/Armature/Hips/Spine",
		domain.RoleLeftHand: "Source/Armature/Hips/Spine/LeftHand",
	}, src.Animator.Humanoid)

	hips, _ := scene.Node("Source/Armature/Hips")
	assert.Equal(t, [3]float64{0, 1.02, 0}, hips.Transform.Position)
	assert.Equal(t, [3]float64{1, 1, 1}, hips.Transform.Scale)

	dstHips, ok := scene.Node("dst-hips")
	require.True(t, ok, "explicit ids win over paths")
	require.Len(t, dstHips.Constraints, 1)
	assert.Equal(t, domain.Constraint{
		Type:    "VRCParentConstraint",
		Kind:    domain.KindParent,
		Sources: []domain.ConstraintSource{{Node: "Source/Armature/Hips", Weight: 1}},
		Active:  true,
	}, dstHips.Constraints[0])

	_, ok = scene.Node("Destination/Armature/J_Bip_C_Hips/J_Bip_C_Spine")
	assert.True(t, ok, "default ids are name paths even below an explicit id")

	props, _ := scene.Node("Props")
	assert.False(t, props.HasAnimator())
}

func TestDecode_JSON(t *testing.T) {
	data := []byte(`{
		"scene": "json",
		"objects": [
			{"name": "A", "components": ["Animator"], "humanoid": {"Hips": "Armature/Hips"},
			 "children": [{"name": "Armature", "children": [{"name": "Hips"}]}]}
		]
	}`)
	scene, err := codec.Decode(data)
	require.NoError(t, err)
	a, _ := scene.Node("A")
	assert.Equal(t, domain.NodeID("A/Armature/Hips"), a.Animator.Humanoid[domain.RoleHips])
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		is   error
	}{
		{"malformed", "objects: [", domain.ErrInvalidScene},
		{"unknown key", "objects:\n  - name: A\n    colour: red\n", domain.ErrInvalidScene},
		{"missing name", "objects:\n  - id: a\n", domain.ErrInvalidScene},
		{"duplicate id", "objects:\n  - name: A\n  - name: B\n    id: A\n", domain.ErrInvalidScene},
		{"unknown role", "objects:\n  - name: A\n    humanoid:\n      Tail: A\n", domain.ErrUnknownBoneRole},
		{"unknown reference", "objects:\n  - name: A\n    humanoid:\n      Hips: Nowhere\n", domain.ErrNodeNotFound},
		{"unknown kind", "objects:\n  - name: A\n    constraints:\n      - type: SpringConstraint\n        sources: []\n", domain.ErrUnknownConstraintKind},
		{"bad transform", "objects:\n  - name: A\n    transform:\n      position: [1, 2]\n", domain.ErrInvalidScene},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestRoundTrip_AppliedConstraints(t *testing.T) {
	scene, err := codec.DecodeFile(filepath.Join("testdata", "avatars.yaml"))
	require.NoError(t, err)

	report, err := humanoid.New().Apply(context.Background(), scene, humanoid.ApplyRequest{
		Source: "Source", Destination: "Destination", Kind: domain.KindRotation,
	})
	require.NoError(t, err)
	require.Len(t, report.Applied, 2, "hips and spine resolve by name on the destination")

	for _, format := range []codec.Format{codec.FormatYAML, codec.FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			data, err := codec.Encode(scene, format)
			require.NoError(t, err)

			decoded, err := codec.Decode(data)
			require.NoError(t, err)
			if diff := cmp.Diff(scene, decoded); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeFile(t *testing.T) {
	scene, err := codec.DecodeFile(filepath.Join("testdata", "avatars.yaml"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, codec.EncodeFile(path, scene))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id": "dst-hips"`)

	again, err := codec.DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, "avatars", again.ID)
}

func TestFormats(t *testing.T) {
	assert.Equal(t, codec.FormatJSON, codec.FormatFromPath("a/b.JSON"))
	assert.Equal(t, codec.FormatYAML, codec.FormatFromPath("a/b.yml"))
	assert.Equal(t, codec.FormatYAML, codec.FormatFromPath("a/b"))

	f, err := codec.ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, codec.FormatYAML, f)
	_, err = codec.ParseFormat("toml")
	assert.Error(t, err)
	_, err = codec.Encode(domain.NewScene("x"), codec.Format("toml"))
	assert.Error(t, err)
}

const kindOnlyYAML = `scene: kind-only
objects:
  - name: Source
    components: [Animator]
    children:
      - name: Armature
        children:
          - name: Hips
  - name: Destination
    components: [Animator]
    children:
      - name: Armature
        children:
          - name: Hips
            constraints:
              - kind: parent
                sources:
                  - node: Source/Armature/Hips
`

func TestDecode_KindOnlyConstraintMatchesEveryFamily(t *testing.T) {
	scene, err := codec.Decode([]byte(kindOnlyYAML))
	require.NoError(t, err)

	hips, _ := scene.Node("Destination/Armature/Hips")
	require.Len(t, hips.Constraints, 1)
	assert.Empty(t, hips.Constraints[0].Type)
	assert.Equal(t, domain.KindParent, hips.Constraints[0].Kind)

	data, err := codec.Encode(scene, codec.FormatYAML)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "type:")

	for _, family := range []host.Family{host.VRChat, host.Unity} {
		t.Run(string(family), func(t *testing.T) {
			report, err := humanoid.New(humanoid.WithFamily(family)).Plan(context.Background(), scene, humanoid.ApplyRequest{
				Source: "Source", Destination: "Destination", Kind: domain.KindParent,
			})
			require.NoError(t, err)
			assert.Empty(t, report.Applied)
			require.Len(t, report.Warnings, 1)
			assert.Equal(t, "The GameObject `Hips` has been skipped because it already has ParentConstraint.", report.Warnings[0].Message)
		})
	}
}
