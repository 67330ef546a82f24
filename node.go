package bough

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// NodeID addresses a node inside its Tree. Zero is never a valid id.
type NodeID uint32

// Line3 is one colored line of a KindLines primitive, in local space.
type Line3 struct {
	A, B  r3.Vec
	Color Color
}

// Node is one element of a Tree. A single flat struct is used for all
// kinds; which fields are meaningful depends on Kind.
type Node struct {
	// Identity
	ID   NodeID
	Name string
	Kind Kind

	// Hierarchy. Parent is a non-owning back-reference used for upward
	// walks only; the owning direction is children (and Segment).
	Parent   NodeID
	children []NodeID

	Local   Transform
	Visible bool

	// Branch fields (KindBranch)
	Depth      int
	Length     float64
	Radius     float64
	ColorIndex int
	Slot       int
	Segment    NodeID

	// Primitive fields (KindSegment, KindLines). Segments reuse Length
	// and Radius for their geometry.
	Color Color
	Lines []Line3

	// Render resources, released with the tree.
	mesh *segmentMesh

	world          Transform
	transformDirty bool
}

// Tree is an arena of nodes addressed by NodeID. The tree owns every node
// it allocates; nodes are only freed by Remove or Release.
type Tree struct {
	nodes    []*Node // index is the NodeID; index 0 is unused
	roots    []NodeID
	live     int
	released bool
}

// NewTree creates an empty arena.
func NewTree() *Tree {
	return &Tree{nodes: make([]*Node, 1, 64)}
}

// Node returns the node for id, or nil if id is zero, unknown or removed.
func (t *Tree) Node(id NodeID) *Node {
	if t == nil || id == 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// Len returns the number of live nodes of every kind.
func (t *Tree) Len() int {
	return t.live
}

// Roots returns the ids of nodes created without a parent. The returned
// slice MUST NOT be mutated by the caller.
func (t *Tree) Roots() []NodeID {
	return t.roots
}

func (t *Tree) newNode(kind Kind, name string) *Node {
	if t.released {
		panic("bough: allocation in a released tree")
	}
	n := &Node{
		ID:             NodeID(len(t.nodes)),
		Name:           name,
		Kind:           kind,
		Local:          IdentityTransform(),
		Visible:        true,
		Color:          ColorWhite,
		world:          IdentityTransform(),
		transformDirty: true,
	}
	t.nodes = append(t.nodes, n)
	t.live++
	return n
}

// attach links child under parent. A zero parent makes child a root.
func (t *Tree) attach(parent NodeID, child *Node) {
	if parent == 0 {
		t.roots = append(t.roots, child.ID)
		return
	}
	p := t.Node(parent)
	if p == nil {
		panic(fmt.Sprintf("bough: parent %d does not exist", parent))
	}
	child.Parent = parent
	if child.Kind == KindSegment && p.Kind == KindBranch {
		if p.Segment != 0 {
			panic("bough: branch already owns a segment")
		}
		p.Segment = child.ID
		return
	}
	if p.Kind == KindBranch && child.Kind != KindBranch {
		panic("bough: branches only own branches and their segment")
	}
	p.children = append(p.children, child.ID)
}

// AddGroup creates an untagged container under parent (0 for a root).
func (t *Tree) AddGroup(parent NodeID, name string) NodeID {
	n := t.newNode(KindGroup, name)
	t.attach(parent, n)
	return n.ID
}

// AddSegment creates a cylinder primitive under parent. Under a branch it
// becomes the branch's own segment; under a group it is a free primitive
// that belongs to no branch.
func (t *Tree) AddSegment(parent NodeID, length, radius float64, color Color) NodeID {
	n := t.newNode(KindSegment, "segment")
	n.Length = length
	n.Radius = radius
	n.Color = color
	t.attach(parent, n)
	return n.ID
}

// AddLines creates a line-list primitive under parent.
func (t *Tree) AddLines(parent NodeID, name string, lines []Line3) NodeID {
	n := t.newNode(KindLines, name)
	n.Lines = lines
	t.attach(parent, n)
	return n.ID
}

// newBranch creates a branch container and its segment. depth must already
// be validated against the palette.
func (t *Tree) newBranch(parent NodeID, depth int, length, radius float64) *Node {
	n := t.newNode(KindBranch, fmt.Sprintf("branch-d%d", depth))
	n.Depth = depth
	n.Length = length
	n.Radius = radius
	n.ColorIndex = depth
	t.attach(parent, n)
	t.AddSegment(n.ID, length, radius, PaletteColor(depth))
	return n
}

// Children returns id's owned children, excluding a branch's segment. The
// returned slice MUST NOT be mutated by the caller.
func (t *Tree) Children(id NodeID) []NodeID {
	if n := t.Node(id); n != nil {
		return n.children
	}
	return nil
}

// NumChildren returns the number of owned children of id.
func (t *Tree) NumChildren(id NodeID) int {
	return len(t.Children(id))
}

// Walk visits id and its descendants depth-first in child order, segments
// before children. Returning false from fn skips that node's descendants.
func (t *Tree) Walk(id NodeID, fn func(n *Node) bool) {
	n := t.Node(id)
	if n == nil || !fn(n) {
		return
	}
	if n.Segment != 0 {
		t.Walk(n.Segment, fn)
	}
	for _, c := range n.children {
		t.Walk(c, fn)
	}
}

// CountBranches returns the number of KindBranch nodes at or below id.
func (t *Tree) CountBranches(id NodeID) int {
	count := 0
	t.Walk(id, func(n *Node) bool {
		if n.Kind == KindBranch {
			count++
		}
		return true
	})
	return count
}

// Addressable walks up from id through parents and returns the first
// branch, or false when the walk leaves the tree without finding one.
func (t *Tree) Addressable(id NodeID) (NodeID, bool) {
	for p := t.Node(id); p != nil; p = t.Node(p.Parent) {
		if p.Kind == KindBranch {
			return p.ID, true
		}
	}
	return 0, false
}

// DisplayColor returns the color a branch is currently drawn with, or the
// node's own color for primitives.
func (t *Tree) DisplayColor(id NodeID) Color {
	n := t.Node(id)
	if n == nil {
		return Color{}
	}
	if n.Kind == KindBranch {
		if seg := t.Node(n.Segment); seg != nil {
			return seg.Color
		}
	}
	return n.Color
}

// setBranchColor recolors a branch's segment.
func (t *Tree) setBranchColor(id NodeID, c Color) {
	n := t.Node(id)
	if n == nil || n.Kind != KindBranch {
		return
	}
	if seg := t.Node(n.Segment); seg != nil {
		seg.Color = c
	}
}

// Remove detaches id from its parent and frees it and its whole subtree.
func (t *Tree) Remove(id NodeID) {
	n := t.Node(id)
	if n == nil {
		return
	}
	if p := t.Node(n.Parent); p != nil {
		if p.Segment == id {
			p.Segment = 0
		} else {
			p.children = removeID(p.children, id)
		}
	} else {
		t.roots = removeID(t.roots, id)
	}
	t.free(id)
}

func (t *Tree) free(id NodeID) {
	n := t.Node(id)
	if n == nil {
		return
	}
	if n.Segment != 0 {
		t.free(n.Segment)
	}
	for _, c := range n.children {
		t.free(c)
	}
	n.releaseMesh()
	n.children = nil
	n.Lines = nil
	n.Parent = 0
	n.Segment = 0
	t.nodes[id] = nil
	t.live--
}

// Release frees every node and its render resources. The tree must not be
// used for new allocations afterwards.
func (t *Tree) Release() {
	if t == nil || t.released {
		return
	}
	for _, id := range append([]NodeID(nil), t.roots...) {
		t.Remove(id)
	}
	t.nodes = t.nodes[:1]
	t.released = true
}

// IsReleased reports whether Release has been called.
func (t *Tree) IsReleased() bool {
	return t.released
}

func removeID(s []NodeID, id NodeID) []NodeID {
	for i, c := range s {
		if c == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = 0
			return s[:len(s)-1]
		}
	}
	return s
}
