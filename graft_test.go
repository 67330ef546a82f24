package bough

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertTransformNear(t *testing.T, want, got Transform) {
	t.Helper()
	assert.InDelta(t, want.Pos.X, got.Pos.X, 1e-9, "pos x")
	assert.InDelta(t, want.Pos.Y, got.Pos.Y, 1e-9, "pos y")
	assert.InDelta(t, want.Pos.Z, got.Pos.Z, 1e-9, "pos z")
	assert.InDelta(t, want.Rot.Real, got.Rot.Real, 1e-9, "rot real")
	assert.InDelta(t, want.Rot.Imag, got.Rot.Imag, 1e-9, "rot i")
	assert.InDelta(t, want.Rot.Jmag, got.Rot.Jmag, 1e-9, "rot j")
	assert.InDelta(t, want.Rot.Kmag, got.Rot.Kmag, 1e-9, "rot k")
	assert.InDelta(t, want.Scale, got.Scale, 1e-9, "scale")
}

func TestGraftOnRoot(t *testing.T) {
	tr, root := buildTestTree(t, 3, 2)
	before := tr.CountBranches(root)

	child, ok := tr.Graft(root, 2, GraftOptions{Slot: 1})
	require.True(t, ok)

	assert.Equal(t, 3, tr.NumChildren(root))
	n := tr.Node(child)
	require.NotNil(t, n)
	assert.Equal(t, KindBranch, n.Kind)
	assert.Equal(t, root, n.Parent)
	assert.Equal(t, 2, n.Depth)
	assert.Equal(t, ExpectedNodeCount(2, 2), tr.CountBranches(child))
	assert.Equal(t, before+3, tr.CountBranches(root))
	assert.Equal(t, PaletteColor(2), tr.DisplayColor(child))
}

func TestGraftMatchesRebuildPlacement(t *testing.T) {
	tr, root := buildTestTree(t, 3, 3)
	for slot := 1; slot <= 3; slot++ {
		built := tr.Node(tr.Children(root)[slot-1])
		require.Equal(t, slot, built.Slot)

		child, ok := tr.Graft(root, 3, GraftOptions{Slot: slot})
		require.True(t, ok)
		g := tr.Node(child)
		assert.Equal(t, slot, g.Slot)
		assert.InDelta(t, built.Length, g.Length, 1e-12)
		assert.InDelta(t, built.Radius, g.Radius, 1e-12)
		assertTransformNear(t, built.Local, g.Local)
	}
}

func TestGraftOnLeafIsNoOp(t *testing.T) {
	tr, root := buildTestTree(t, 2, 2)
	leaf := tr.Children(root)[0]
	before := tr.Len()

	_, ok := tr.Graft(leaf, 2, GraftOptions{})
	assert.False(t, ok)
	assert.Equal(t, before, tr.Len())
	assert.Zero(t, tr.NumChildren(leaf))
}

func TestGraftRejectsNonBranchTargets(t *testing.T) {
	tr, root := buildTestTree(t, 3, 2)
	before := tr.Len()

	_, ok := tr.Graft(tr.Node(root).Segment, 2, GraftOptions{})
	assert.False(t, ok, "segment")
	_, ok = tr.Graft(0, 2, GraftOptions{})
	assert.False(t, ok, "zero id")
	_, ok = tr.Graft(5000, 2, GraftOptions{})
	assert.False(t, ok, "absent id")
	_, ok = tr.Graft(root, 0, GraftOptions{})
	assert.False(t, ok, "no branches")
	assert.Equal(t, before, tr.Len())
}

func TestGraftRepeatedAddsSiblings(t *testing.T) {
	tr, root := buildTestTree(t, 3, 2)
	for i := 0; i < 4; i++ {
		_, ok := tr.Graft(root, 2, GraftOptions{Rand: rand.New(rand.NewPCG(1, uint64(i)))})
		require.True(t, ok)
	}
	assert.Equal(t, 6, tr.NumChildren(root))
}

func TestGraftFillsLeastOccupiedSlots(t *testing.T) {
	tr, root := buildTestTree(t, 2, 3)
	rng := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 3; i++ {
		_, ok := tr.Graft(root, 3, GraftOptions{Rand: rng})
		require.True(t, ok)
	}
	assert.Equal(t, []int{0, 2, 2, 2}, tr.SlotOccupancy(root, 3))

	_, ok := tr.Graft(root, 3, GraftOptions{Rand: rng})
	require.True(t, ok)
	occ := tr.SlotOccupancy(root, 3)
	assert.Equal(t, 7, occ[1]+occ[2]+occ[3])
	assert.Equal(t, 3, max(occ[1], occ[2], occ[3]))
}

func TestGraftClampsExplicitSlot(t *testing.T) {
	tr, root := buildTestTree(t, 3, 3)
	child, ok := tr.Graft(root, 3, GraftOptions{Slot: 10})
	require.True(t, ok)
	assert.Equal(t, 3, tr.Node(child).Slot)
}

func TestGraftWithDifferentBranchCount(t *testing.T) {
	tr, root := buildTestTree(t, 3, 2)
	child, ok := tr.Graft(root, 4, GraftOptions{Slot: 2})
	require.True(t, ok)
	assert.Equal(t, 4, tr.NumChildren(child))
	want := composeLocal(Place(4, 2, tr.Node(root).Length), true)
	assertTransformNear(t, want, tr.Node(child).Local)
}
