package bough

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Placement constants shared by the builder and graft.
const (
	// ShrinkFactor scales length and radius from a parent to its children.
	ShrinkFactor = 1.0 / 3.0
	// TiltAngle is the divergence tilt, in radians, applied to every
	// branch below the top-level root.
	TiltAngle = 30 * math.Pi / 180
)

var (
	axisX = r3.Vec{X: 1}
	axisY = r3.Vec{Y: 1}
)

// identityRotation is the no-op rotation. The zero r3.Rotation is not a
// valid rotation, so every Transform starts from this.
var identityRotation = r3.Rotation{Real: 1}

// Transform is a rotation, a uniform scale and a translation, applied in
// that order: p' = Pos + Scale * Rot(p).
type Transform struct {
	Rot   r3.Rotation
	Pos   r3.Vec
	Scale float64
}

// IdentityTransform returns the transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{Rot: identityRotation, Scale: 1}
}

// Mul returns t * c: the transform that applies c first, then t.
func (t Transform) Mul(c Transform) Transform {
	return Transform{
		Rot:   mulRotation(t.Rot, c.Rot),
		Pos:   r3.Add(t.Pos, r3.Scale(t.Scale, t.Rot.Rotate(c.Pos))),
		Scale: t.Scale * c.Scale,
	}
}

// Apply transforms a point.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	return r3.Add(t.Pos, r3.Scale(t.Scale, t.Rot.Rotate(p)))
}

// ApplyDir transforms a direction, ignoring translation.
func (t Transform) ApplyDir(d r3.Vec) r3.Vec {
	return r3.Scale(t.Scale, t.Rot.Rotate(d))
}

// InverseApply maps a point from the transformed space back into local
// space. Undefined when Scale is zero.
func (t Transform) InverseApply(p r3.Vec) r3.Vec {
	return r3.Scale(1/t.Scale, conjRotation(t.Rot).Rotate(r3.Sub(p, t.Pos)))
}

// InverseApplyDir maps a direction back into local space without
// renormalizing it, so ray parameters keep their world-space meaning.
func (t Transform) InverseApplyDir(d r3.Vec) r3.Vec {
	return r3.Scale(1/t.Scale, conjRotation(t.Rot).Rotate(d))
}

// RotateLocalY post-multiplies the rotation by a turn of angle radians
// about the transform's own Y axis.
func (t *Transform) RotateLocalY(angle float64) {
	t.Rot = normalizeRotation(mulRotation(t.Rot, r3.NewRotation(angle, axisY)))
}

// Placement is where a child slot sits on its parent: a turn about the
// trunk axis and an offset along it.
type Placement struct {
	Angle  float64
	Offset float64
}

// Place computes the placement of slot (1-based) among branchCount evenly
// spread slots on a parent of the given length. The last slot sits at the
// parent's tip. branchCount must be positive.
func Place(branchCount, slot int, parentLength float64) Placement {
	b := float64(branchCount)
	i := float64(slot)
	return Placement{
		Angle:  2 * math.Pi / b * i,
		Offset: parentLength / b * i,
	}
}

// composeLocal builds T(0, Offset, 0) * RY(Angle) * RX(tilt). Untilted
// placements are used only for the top-level root.
func composeLocal(pl Placement, tilted bool) Transform {
	rot := r3.NewRotation(pl.Angle, axisY)
	if tilted {
		rot = mulRotation(rot, r3.NewRotation(TiltAngle, axisX))
	}
	return Transform{
		Rot:   rot,
		Pos:   r3.Vec{Y: pl.Offset},
		Scale: 1,
	}
}

func mulRotation(a, b r3.Rotation) r3.Rotation {
	return r3.Rotation(quat.Mul(quat.Number(a), quat.Number(b)))
}

func conjRotation(r r3.Rotation) r3.Rotation {
	return r3.Rotation(quat.Conj(quat.Number(r)))
}

// normalizeRotation removes the drift that accumulates when a rotation is
// multiplied every frame.
func normalizeRotation(r r3.Rotation) r3.Rotation {
	q := quat.Number(r)
	n := quat.Abs(q)
	if n == 0 {
		return identityRotation
	}
	return r3.Rotation(quat.Scale(1/n, q))
}

// updateWorld recomputes world transforms below id. parentRecomputed forces
// recomputation of clean nodes whose parent moved this pass.
func (t *Tree) updateWorld(id NodeID, parent Transform, parentRecomputed bool) {
	n := t.Node(id)
	if n == nil {
		return
	}
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		n.world = parent.Mul(n.Local)
		n.transformDirty = false
	}
	if n.Segment != 0 {
		t.updateWorld(n.Segment, n.world, recompute)
	}
	for _, c := range n.children {
		t.updateWorld(c, n.world, recompute)
	}
}

// UpdateWorld refreshes world transforms for every root node in the tree.
func (t *Tree) UpdateWorld() {
	for _, id := range t.roots {
		t.updateWorld(id, IdentityTransform(), false)
	}
}

// World returns the cached world transform of id. Call UpdateWorld first
// after mutating local transforms.
func (t *Tree) World(id NodeID) Transform {
	n := t.Node(id)
	if n == nil {
		return IdentityTransform()
	}
	return n.world
}

// MarkDirty forces id's world transform to be recomputed on the next
// UpdateWorld. Useful after bulk-setting Local directly.
func (t *Tree) MarkDirty(id NodeID) {
	if n := t.Node(id); n != nil {
		n.transformDirty = true
	}
}
