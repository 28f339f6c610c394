package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/adapters/memory"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/codec"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const avatars = `
scene: avatars
objects:
  - name: Source
    components: [Animator]
    children:
      - name: Armature
        children:
          - name: Hips
            children:
              - name: Spine
  - name: Destination
    components: [Animator]
    children:
      - name: Armature
        children:
          - name: J_Bip_C_Hips
            children:
              - name: J_Bip_C_Spine
`

func newTestServer(t *testing.T) (*Server, *workspace.Manager) {
	t.Helper()
	manager := workspace.NewManager(memory.NewStore(), nil)
	return NewServer(manager, nil), manager
}

func args(kv ...string) map[string]interface{} {
	m := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

func TestValidateScene(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleValidate(ctx, mcp.CallToolRequest{}, args("scene", avatars, "source", "Source", "destination", "Source"))
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, []string{"Could not set the same GameObject as the Source and Destination"}, resp.Messages)

	resp, err = s.handleValidate(ctx, mcp.CallToolRequest{}, args("scene", avatars, "source", "Source", "destination", "Destination"))
	require.NoError(t, err)
	assert.True(t, resp.OK)

	_, err = s.handleValidate(ctx, mcp.CallToolRequest{}, args("source", "Source"))
	assert.Error(t, err)
}

func TestApplyInline(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()
	a := args("scene", avatars, "source", "Source", "destination", "Destination", "kind", "rotation", "exclude", "Destination/Armature/J_Bip_C_Hips/J_Bip_C_Spine, ")

	plan, err := s.handlePlan(ctx, mcp.CallToolRequest{}, a)
	require.NoError(t, err)
	require.NotNil(t, plan.Report)
	require.Len(t, plan.Report.Applied, 1)
	assert.Equal(t, domain.RoleHips, plan.Report.Applied[0].Role)
	assert.Empty(t, plan.Scene)

	resp, err := s.handleApply(ctx, mcp.CallToolRequest{}, a)
	require.NoError(t, err)
	require.Len(t, resp.Report.Applied, 1)

	scene, err := codec.Decode([]byte(resp.Scene))
	require.NoError(t, err)
	hips, ok := scene.Node("Destination/Armature/J_Bip_C_Hips")
	require.True(t, ok)
	require.Len(t, hips.Constraints, 1)
	assert.Equal(t, "VRCRotationConstraint", hips.Constraints[0].Type)
}

func TestApplyStored(t *testing.T) {
	s, manager := newTestServer(t)
	ctx := context.Background()

	scene, err := codec.Decode([]byte(avatars))
	require.NoError(t, err)
	require.NoError(t, manager.Save(ctx, "avatars", scene))

	a := args("scene_id", "avatars", "source", "Source", "destination", "Destination", "kind", "Parent Constraint")
	resp, err := s.handleApply(ctx, mcp.CallToolRequest{}, a)
	require.NoError(t, err)
	assert.Len(t, resp.Report.Applied, 2)
	assert.Empty(t, resp.Scene, "stored scenes are not echoed back")

	resp, err = s.handleApply(ctx, mcp.CallToolRequest{}, a)
	require.NoError(t, err)
	assert.Empty(t, resp.Report.Applied)
	require.Len(t, resp.Report.Warnings, 2)
	assert.Equal(t, "The GameObject `J_Bip_C_Hips` has been skipped because it already has ParentConstraint.", resp.Report.Warnings[0].Message)

	var read mcp.ReadResourceRequest
	read.Params.URI = "cbh://scenes/avatars"
	contents, err := s.handleSceneResource(ctx, read)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text := contents[0].(mcp.TextResourceContents).Text
	assert.Contains(t, text, "VRCParentConstraint")
}

func TestApplyRefusedAndErrors(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleApply(ctx, mcp.CallToolRequest{}, args("scene", avatars, "destination", "Destination", "kind", "aim"))
	require.NoError(t, err)
	assert.True(t, resp.Refused)
	assert.Equal(t, []string{"Set the Source GameObject"}, resp.Messages)
	assert.Nil(t, resp.Report)

	_, err = s.handleApply(ctx, mcp.CallToolRequest{}, args("scene", avatars, "source", "Source", "destination", "Destination", "kind", "twist"))
	assert.ErrorIs(t, err, domain.ErrUnknownConstraintKind)

	_, err = s.handlePlan(ctx, mcp.CallToolRequest{}, args("scene_id", "missing", "source", "Source", "destination", "Destination", "kind", "aim"))
	assert.ErrorIs(t, err, domain.ErrSceneNotFound)
}

func TestRoleNames(t *testing.T) {
	s, _ := newTestServer(t)

	names := s.roleNames()
	assert.Equal(t, "Hips", names[0])
	assert.Len(t, names, len(domain.CanonicalRoles()))
	assert.NotNil(t, s.MCPServer())
}
