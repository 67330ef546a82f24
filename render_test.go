package bough

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSegmentCommandProjection(t *testing.T) {
	tr, root := buildTestTree(t, 1, 1)
	tr.UpdateWorld()
	cam := newTestCamera()

	order := 0
	cmds := appendTreeCommands(nil, cam, tr, root, &order)
	require.Len(t, cmds, 1)
	cmd := cmds[0]
	assert.Equal(t, CommandSegment, cmd.Type)
	assert.Equal(t, tr.Node(root).Segment, cmd.Node)
	assert.InDelta(t, 50, cmd.Depth, 1e-9)
	require.Len(t, cmd.meshVerts, segmentVertCount)

	v := cmd.meshVerts
	// Center column sits on the trunk axis, mid-screen horizontally.
	assert.InDelta(t, 400, v[1].DstX, 1e-3)
	assert.InDelta(t, 400, v[4].DstX, 1e-3)
	assert.Greater(t, v[1].DstY, v[4].DstY, "base is below the tip on screen")

	// Edges are symmetric and the base is wider by the flare.
	hb := math.Abs(float64(v[0].DstX - v[1].DstX))
	ht := math.Abs(float64(v[3].DstX - v[4].DstX))
	assert.InDelta(t, hb, math.Abs(float64(v[2].DstX-v[1].DstX)), 1e-3)
	assert.InDelta(t, segmentFlare, hb/ht, 1e-3)
	assert.InDelta(t, 0.5*segmentFlare*cam.pixelsPerUnit(50), hb, 1e-3)
}

func TestSegmentCommandUsesDisplayColor(t *testing.T) {
	tr, root := buildTestTree(t, 2, 1)
	tr.setBranchColor(root, HighlightColor)
	tr.UpdateWorld()

	order := 0
	cmds := appendTreeCommands(nil, newTestCamera(), tr, root, &order)
	require.Len(t, cmds, 2)
	assert.Equal(t, toColor32(HighlightColor), cmds[0].Color)
	assert.Equal(t, toColor32(PaletteColor(1)), cmds[1].Color)
}

func TestAppendTreeCommandsSkipsHiddenAndBehind(t *testing.T) {
	tr, root := buildTestTree(t, 2, 2)
	cam := newTestCamera()

	tr.Node(root).Visible = false
	tr.UpdateWorld()
	order := 0
	assert.Empty(t, appendTreeCommands(nil, cam, tr, root, &order))

	tr.Node(root).Visible = true
	tr.Node(root).Local.Pos = r3.Vec{Z: 100}
	tr.MarkDirty(root)
	tr.UpdateWorld()
	assert.Empty(t, appendTreeCommands(nil, cam, tr, root, &order))
}

func TestAppendTreeCommandsSkipsCollapsed(t *testing.T) {
	tr, root := buildTestTree(t, 2, 2)
	tr.Node(tr.Children(root)[0]).Local.Scale = 0
	tr.UpdateWorld()

	order := 0
	cmds := appendTreeCommands(nil, newTestCamera(), tr, root, &order)
	assert.Len(t, cmds, 2)
}

func TestSceneBuildCommandsWithHelpers(t *testing.T) {
	cfg := testConfig(3, 2)
	cfg.ShowHelpers = true
	s, err := NewScene(cfg)
	require.NoError(t, err)

	s.buildCommands()
	var segments, lines int
	for i, cmd := range s.commands {
		assert.Equal(t, i+1, cmd.treeOrder)
		switch cmd.Type {
		case CommandSegment:
			segments++
		case CommandLine:
			lines++
		}
	}
	assert.Equal(t, 7, segments)
	assert.Equal(t, 2*(gridDivisions+1)+3, lines)
}

func TestSortCommandsFarToNear(t *testing.T) {
	cmds := []RenderCommand{
		{Depth: 1, treeOrder: 1},
		{Depth: 3, treeOrder: 2},
		{Depth: 2, treeOrder: 3},
		{Depth: 3, treeOrder: 4},
		{Depth: 0.5, treeOrder: 5},
	}
	buf := sortCommands(cmds, nil)
	assert.Len(t, buf, len(cmds))

	var got []int
	for _, c := range cmds {
		got = append(got, c.treeOrder)
	}
	assert.Equal(t, []int{2, 4, 3, 1, 5}, got)
}

func TestSortCommandsReusesBuffer(t *testing.T) {
	cmds := make([]RenderCommand, 64)
	for i := range cmds {
		cmds[i] = RenderCommand{Depth: float64(i % 7), treeOrder: i}
	}
	buf := sortCommands(cmds, make([]RenderCommand, 0, 128))
	assert.Equal(t, 128, cap(buf))
	for i := 1; i < len(cmds); i++ {
		assert.True(t, commandLessOrEqual(cmds[i-1], cmds[i]), "index %d", i)
	}
}

func TestRebuildReleasesSegmentMeshes(t *testing.T) {
	s := newTestScene(t, 3, 2)
	s.buildCommands()
	seg := s.Tree().Node(s.Tree().Node(s.Root()).Segment)
	require.NotNil(t, seg.mesh)

	require.NoError(t, s.SetParams(2, 2))
	assert.Nil(t, seg.mesh)
}

func TestColor32RGBA(t *testing.T) {
	c := toColor32(Color{R: 1, G: 0.5, B: 0, A: 1}).rgba()
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(128), c.G)
	assert.Equal(t, uint8(0), c.B)
	assert.Equal(t, uint8(255), c.A)
}
