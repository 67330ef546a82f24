package bough

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func assertVecNear(t *testing.T, want, got r3.Vec, msgAndArgs ...any) {
	t.Helper()
	if r3.Norm(r3.Sub(want, got)) > 1e-9 {
		assert.Fail(t, fmt.Sprintf("vectors differ: want %v, got %v", want, got), msgAndArgs...)
	}
}

func TestIdentityTransformApply(t *testing.T) {
	p := r3.Vec{X: 1, Y: -2, Z: 3}
	assertVecNear(t, p, IdentityTransform().Apply(p))
	assertVecNear(t, p, IdentityTransform().ApplyDir(p))
}

func TestTransformMulComposes(t *testing.T) {
	a := Transform{Rot: r3.NewRotation(0.7, axisY), Pos: r3.Vec{X: 1, Y: 2}, Scale: 2}
	b := Transform{Rot: r3.NewRotation(-0.3, axisX), Pos: r3.Vec{Z: 4}, Scale: 0.5}
	p := r3.Vec{X: 0.3, Y: 1.1, Z: -2}

	assertVecNear(t, a.Apply(b.Apply(p)), a.Mul(b).Apply(p))
}

func TestTransformInverse(t *testing.T) {
	tr := Transform{Rot: r3.NewRotation(1.2, r3.Vec{X: 1, Y: 1}), Pos: r3.Vec{X: -3, Y: 5, Z: 1}, Scale: 3}
	p := r3.Vec{X: 2, Y: 0.5, Z: -1}

	assertVecNear(t, p, tr.InverseApply(tr.Apply(p)))
	assertVecNear(t, p, tr.InverseApplyDir(tr.ApplyDir(p)))
}

func TestPlace(t *testing.T) {
	tests := []struct {
		b, slot    int
		length     float64
		wantAngle  float64
		wantOffset float64
	}{
		{1, 1, 9, 2 * math.Pi, 9},
		{2, 1, 9, math.Pi, 4.5},
		{3, 3, 9, 2 * math.Pi, 9},
		{6, 2, 12, 2 * math.Pi / 3, 4},
	}
	for _, tt := range tests {
		pl := Place(tt.b, tt.slot, tt.length)
		assert.InDelta(t, tt.wantAngle, pl.Angle, 1e-12, "b=%d slot=%d", tt.b, tt.slot)
		assert.InDelta(t, tt.wantOffset, pl.Offset, 1e-12, "b=%d slot=%d", tt.b, tt.slot)
	}
}

func TestComposeLocalOffsetAndTilt(t *testing.T) {
	pl := Placement{Angle: 1, Offset: 7}

	flat := composeLocal(pl, false)
	assertVecNear(t, r3.Vec{Y: 7}, flat.Apply(r3.Vec{}))
	assertVecNear(t, axisY, flat.ApplyDir(axisY), "untilted keeps the axis")

	tilted := composeLocal(pl, true)
	assertVecNear(t, r3.Vec{Y: 7}, tilted.Apply(r3.Vec{}))
	assert.InDelta(t, math.Cos(TiltAngle), r3.Dot(tilted.ApplyDir(axisY), axisY), 1e-12)
}

func TestComposeLocalSlotsSpreadAround(t *testing.T) {
	// Tilted children at different slots lean in different directions.
	a := composeLocal(Place(4, 1, 10), true).ApplyDir(axisY)
	b := composeLocal(Place(4, 3, 10), true).ApplyDir(axisY)
	assert.InDelta(t, a.Y, b.Y, 1e-12)
	assert.InDelta(t, -a.X, b.X, 1e-9)
	assert.InDelta(t, -a.Z, b.Z, 1e-9)
}

func TestRotateLocalYKeepsAxis(t *testing.T) {
	tr := composeLocal(Place(3, 1, 6), true)
	axis := tr.ApplyDir(axisY)
	for i := 0; i < 500; i++ {
		tr.RotateLocalY(0.05)
	}
	assertVecNear(t, axis, tr.ApplyDir(axisY))
	assert.InDelta(t, 1.0, r3.Norm(tr.ApplyDir(axisX)), 1e-12, "rotation stays normalized")
}

func TestWorldTransformParentChild(t *testing.T) {
	tr, root := buildTestTree(t, 2, 1)
	child := tr.Children(root)[0]
	tr.UpdateWorld()

	// The only child sits at the parent's tip.
	assertVecNear(t, r3.Vec{Y: 20}, tr.World(child).Apply(r3.Vec{}))
	assertVecNear(t, tr.World(child).Apply(r3.Vec{}), tr.World(tr.Node(child).Segment).Apply(r3.Vec{}))
}

func TestParentRecomputedPropagates(t *testing.T) {
	tr, root := buildTestTree(t, 3, 1)
	tr.UpdateWorld()
	leaf := tr.Children(tr.Children(root)[0])[0]
	before := tr.World(leaf).Apply(r3.Vec{})

	tr.Node(root).Local.Pos = r3.Vec{X: 5}
	tr.MarkDirty(root)
	tr.UpdateWorld()

	assertVecNear(t, r3.Add(before, r3.Vec{X: 5}), tr.World(leaf).Apply(r3.Vec{}))
}

func TestDirtyFlagSkipsClean(t *testing.T) {
	tr, root := buildTestTree(t, 1, 1)
	tr.UpdateWorld()

	// Mutating Local without marking dirty leaves the cached world alone.
	tr.Node(root).Local.Pos = r3.Vec{Z: 9}
	tr.UpdateWorld()
	assertVecNear(t, r3.Vec{}, tr.World(root).Apply(r3.Vec{}))

	tr.MarkDirty(root)
	tr.UpdateWorld()
	assertVecNear(t, r3.Vec{Z: 9}, tr.World(root).Apply(r3.Vec{}))
}
