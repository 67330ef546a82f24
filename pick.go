package bough

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// segmentFlare is the bottom-to-top radius ratio of a segment. Picking uses
// the bounding cylinder of radius Radius*segmentFlare.
const segmentFlare = 1.2

const rayEpsilon = 1e-9

// Ray is a half-line from Origin along the unit vector Dir.
type Ray struct {
	Origin r3.Vec
	Dir    r3.Vec
}

// NewRay returns a ray with a normalized direction.
func NewRay(origin, dir r3.Vec) Ray {
	return Ray{Origin: origin, Dir: r3.Unit(dir)}
}

// At returns the point at distance d along the ray.
func (r Ray) At(d float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(d, r.Dir))
}

// Hit is one ray intersection with a primitive.
type Hit struct {
	Node     NodeID
	Distance float64
	Point    r3.Vec
}

// intersectCylinder returns the nearest non-negative ray parameter at which
// o + s*d meets the closed cylinder of the given radius spanning y in
// [0, length] around the Y axis.
func intersectCylinder(o, d r3.Vec, length, radius float64) (float64, bool) {
	best := math.Inf(1)
	r2 := radius * radius

	// Side wall.
	a := d.X*d.X + d.Z*d.Z
	if a > rayEpsilon {
		b := 2 * (o.X*d.X + o.Z*d.Z)
		c := o.X*o.X + o.Z*o.Z - r2
		disc := b*b - 4*a*c
		if disc >= 0 {
			sq := math.Sqrt(disc)
			for _, s := range [2]float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				if s < 0 || s >= best {
					continue
				}
				if y := o.Y + s*d.Y; y >= 0 && y <= length {
					best = s
				}
			}
		}
	}

	// End caps.
	if math.Abs(d.Y) > rayEpsilon {
		for _, capY := range [2]float64{0, length} {
			s := (capY - o.Y) / d.Y
			if s < 0 || s >= best {
				continue
			}
			x := o.X + s*d.X
			z := o.Z + s*d.Z
			if x*x+z*z <= r2 {
				best = s
			}
		}
	}

	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

// intersectSegment tests the ray against one segment primitive using its
// cached world transform.
func (t *Tree) intersectSegment(n *Node, ray Ray) (Hit, bool) {
	w := n.world
	if w.Scale <= 0 {
		return Hit{}, false
	}
	o := w.InverseApply(ray.Origin)
	d := w.InverseApplyDir(ray.Dir)
	s, ok := intersectCylinder(o, d, n.Length, n.Radius*segmentFlare)
	if !ok {
		return Hit{}, false
	}
	return Hit{Node: n.ID, Distance: s, Point: ray.At(s)}, true
}

// Intersect returns every segment primitive below roots that the ray hits,
// nearest first. World transforms must be current.
func (t *Tree) Intersect(ray Ray, roots []NodeID) []Hit {
	var hits []Hit
	for _, root := range roots {
		t.Walk(root, func(n *Node) bool {
			if !n.Visible {
				return false
			}
			if n.Kind == KindSegment {
				if h, ok := t.intersectSegment(n, ray); ok {
					hits = append(hits, h)
				}
			}
			return true
		})
	}
	slices.SortStableFunc(hits, func(a, b Hit) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	return hits
}

// ResolveRay returns the addressable branch of the nearest hit that has
// one. A hit whose ancestry holds no branch is skipped.
func (t *Tree) ResolveRay(ray Ray, roots []NodeID) (NodeID, bool) {
	for _, h := range t.Intersect(ray, roots) {
		if id, ok := t.Addressable(h.Node); ok {
			return id, true
		}
	}
	return 0, false
}

// ResolveBranch casts a ray from cam through the pointer at ndc and returns
// the nearest addressable branch under roots.
func ResolveBranch(ndc Vec2, cam *Camera, tree *Tree, roots []NodeID) (NodeID, bool) {
	if tree == nil || cam == nil {
		return 0, false
	}
	tree.UpdateWorld()
	return tree.ResolveRay(cam.RayFromNDC(ndc), roots)
}
