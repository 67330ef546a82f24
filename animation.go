package bough

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultSpinStep is the per-frame spin increment, in radians.
const DefaultSpinStep = math.Pi / 180

// --- Frame handler registry ---

type frameHandler struct {
	id   uint32
	fn   func(dt float32)
	dead bool
}

type frameRegistry struct {
	handlers []*frameHandler
	scratch  []*frameHandler
	nextID   uint32
}

// FrameHandle allows removing a registered frame handler.
type FrameHandle struct {
	id  uint32
	reg *frameRegistry
}

// Remove unregisters the handler so it no longer runs, including later in
// the frame that is currently being dispatched.
func (h FrameHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.handlers
	for i := range s {
		if s[i].id == h.id {
			s[i].dead = true
			copy(s[i:], s[i+1:])
			s[len(s)-1] = nil
			h.reg.handlers = s[:len(s)-1]
			return
		}
	}
}

// Active reports whether the handler is still registered.
func (h FrameHandle) Active() bool {
	if h.reg == nil {
		return false
	}
	for _, fh := range h.reg.handlers {
		if fh.id == h.id {
			return true
		}
	}
	return false
}

func (r *frameRegistry) add(fn func(dt float32)) FrameHandle {
	r.nextID++
	r.handlers = append(r.handlers, &frameHandler{id: r.nextID, fn: fn})
	return FrameHandle{id: r.nextID, reg: r}
}

// run calls every live handler once. Handlers may add or remove handlers;
// additions run from the next frame.
func (r *frameRegistry) run(dt float32) {
	r.scratch = append(r.scratch[:0], r.handlers...)
	for _, h := range r.scratch {
		if !h.dead {
			h.fn(dt)
		}
	}
	clear(r.scratch)
}

func (r *frameRegistry) len() int {
	return len(r.handlers)
}

// --- Spin ---

// Spin post-multiplies the local rotation of every branch at or below root
// by a turn of step radians about the branch's local Y axis, which is its
// trunk direction and not world up. Only the root's local Y is vertical.
// Segments are never rotated directly, so turns compound down the branch
// chain.
func (t *Tree) Spin(root NodeID, step float64) {
	t.Walk(root, func(n *Node) bool {
		if n.Kind == KindBranch {
			n.Local.RotateLocalY(step)
			n.transformDirty = true
		}
		return true
	})
}

// Spinner drives the optional spin behavior. While enabled it owns one
// frame handler on its Scene.
type Spinner struct {
	// Step is the rotation applied per frame, in radians.
	Step float64

	handle FrameHandle
	steps  int
}

// Enabled reports whether the spin step is scheduled.
func (sp *Spinner) Enabled() bool {
	return sp.handle.Active()
}

// Steps returns how many spin increments have been applied.
func (sp *Spinner) Steps() int {
	return sp.steps
}

// Enable schedules the spin step on s. No-op when already enabled.
func (sp *Spinner) Enable(s *Scene) {
	if sp.Enabled() {
		return
	}
	sp.handle = s.AddFrameHandler(func(float32) {
		if s.tree == nil {
			return
		}
		s.tree.Spin(s.root, sp.Step)
		sp.steps++
	})
}

// Disable cancels the scheduled step. Accumulated rotation is kept.
func (sp *Spinner) Disable() {
	sp.handle.Remove()
	sp.handle = FrameHandle{}
}

// --- Grow tween ---

// GrowTween animates the uniform scale of a freshly grafted branch from 0
// to 1. If the branch disappears, the tween stops immediately.
type GrowTween struct {
	tween  *gween.Tween
	tree   *Tree
	node   NodeID
	handle FrameHandle
	Done   bool
}

// NewGrowTween creates a tween for node and sets its scale to zero.
func NewGrowTween(tree *Tree, node NodeID, duration float32, fn ease.TweenFunc) *GrowTween {
	g := &GrowTween{
		tween: gween.New(0, 1, duration, fn),
		tree:  tree,
		node:  node,
	}
	if n := tree.Node(node); n != nil {
		n.Local.Scale = 0
		n.transformDirty = true
	}
	return g
}

// Update advances the tween by dt seconds and writes the scale.
func (g *GrowTween) Update(dt float32) {
	if g.Done {
		return
	}
	n := g.tree.Node(g.node)
	if n == nil || g.tree.IsReleased() {
		g.Done = true
		return
	}
	val, finished := g.tween.Update(dt)
	n.Local.Scale = float64(val)
	if finished {
		n.Local.Scale = 1
	}
	n.transformDirty = true
	g.Done = finished
}

// Cancel stops the tween and snaps the branch to full size.
func (g *GrowTween) Cancel() {
	if !g.Done {
		if n := g.tree.Node(g.node); n != nil {
			n.Local.Scale = 1
			n.transformDirty = true
		}
	}
	g.Done = true
	g.handle.Remove()
}
