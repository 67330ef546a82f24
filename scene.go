package bough

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// EventSink receives tree events. When set on a Scene, hover, graft and
// rebuild events are forwarded to it.
type EventSink interface {
	EmitEvent(event TreeEvent)
}

// TreeEvent carries one Scene event.
type TreeEvent struct {
	Type EventType
	// Node is the hovered branch, the new grafted branch, or the new root.
	Node NodeID
	// Parent is the graft target for EventGraft.
	Parent NodeID
	Depth  int
	Slot   int
	// NodeCount is the number of branches in the tree after the event.
	NodeCount int
}

// Params are the two user-facing generation parameters.
type Params struct {
	Depth       int
	BranchCount int
}

// Validate checks both parameters against [1, 6].
func (p Params) Validate() error {
	if p.Depth < 1 || p.Depth > PaletteSize {
		return fmt.Errorf("bough: depth %d not in [1, %d]: %w", p.Depth, PaletteSize, ErrDepthRange)
	}
	if p.BranchCount < 1 || p.BranchCount > MaxBranchCount {
		return fmt.Errorf("bough: branch count %d not in [1, %d]: %w", p.BranchCount, MaxBranchCount, ErrBranchCountRange)
	}
	return nil
}

// Scene owns the live tree and all state that the pointer, parameter and
// frame inputs act on. Every method must be called from one goroutine.
type Scene struct {
	cfg    Config
	params Params

	tree *Tree
	root NodeID

	helpers     *Tree
	helpersRoot NodeID

	camera    *Camera
	selection Selection
	spinner   Spinner
	editMode  bool

	frames  frameRegistry
	grows   []*GrowTween
	rng     *rand.Rand
	sink    EventSink
	redraws int
	debug   bool

	// ClearColor fills the screen before the tree is drawn.
	ClearColor Color

	// Input state
	pointer     pointerState
	pinch       pinchState
	touchIDs    []ebiten.TouchID
	touchActive bool
	injectQueue []syntheticPointerEvent
	testRunner  *TestRunner

	// Screenshots
	ScreenshotDir   string
	screenshotQueue []string

	// Render state
	commands []RenderCommand
	sortBuf  []RenderCommand
	verts    []ebiten.Vertex
	inds     []uint16
}

// NewScene validates cfg and builds the first tree.
func NewScene(cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	s := &Scene{
		cfg:           cfg,
		params:        Params{Depth: cfg.Depth, BranchCount: cfg.BranchCount},
		camera:        cfg.newCamera(),
		rng:           rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		ClearColor:    Color{R: 0.08, G: 0.08, B: 0.11, A: 1},
		ScreenshotDir: cfg.ScreenshotDir,
		commands:      make([]RenderCommand, 0, defaultCommandCap),
	}
	s.spinner.Step = cfg.SpinStepDegrees * math.Pi / 180
	if cfg.ShowHelpers {
		s.helpers, s.helpersRoot = newHelpers()
	}
	if err := s.rebuild(); err != nil {
		return nil, err
	}
	s.SetEditMode(cfg.EditMode)
	s.SetSpin(cfg.Spin)
	s.SetDebugMode(cfg.Debug)
	return s, nil
}

// Tree returns the live tree arena.
func (s *Scene) Tree() *Tree {
	return s.tree
}

// Root returns the id of the live tree's root branch.
func (s *Scene) Root() NodeID {
	return s.root
}

// Params returns the current generation parameters.
func (s *Scene) Params() Params {
	return s.params
}

// Camera returns the scene camera.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// Selection returns the hover state.
func (s *Scene) Selection() *Selection {
	return &s.selection
}

// SetEventSink sets the optional event bridge.
func (s *Scene) SetEventSink(sink EventSink) {
	s.sink = sink
}

// SetParams validates the parameters and replaces the tree with a freshly
// built one. On error the current tree is kept.
func (s *Scene) SetParams(depth, branchCount int) error {
	p := Params{Depth: depth, BranchCount: branchCount}
	if err := p.Validate(); err != nil {
		return err
	}
	prev := s.params
	s.params = p
	if err := s.rebuild(); err != nil {
		s.params = prev
		return err
	}
	return nil
}

// rebuild builds a tree for the current params, releases the old tree and
// installs the new one.
func (s *Scene) rebuild() error {
	tree, root, err := BuildTree(BuildParams{
		Depth:       s.params.Depth,
		BranchCount: s.params.BranchCount,
		TrunkLength: s.cfg.TrunkLength,
		TrunkRadius: s.cfg.TrunkRadius,
	})
	if err != nil {
		return err
	}
	for _, g := range s.grows {
		g.Cancel()
	}
	s.grows = s.grows[:0]
	s.selection.Reset()
	if s.tree != nil {
		s.tree.Release()
	}
	s.tree, s.root = tree, root
	count := tree.CountBranches(root)
	glog.V(1).Infof("bough: rebuilt tree depth=%d branches=%d nodes=%d",
		s.params.Depth, s.params.BranchCount, count)
	s.emit(TreeEvent{Type: EventRebuild, Node: root, Depth: s.params.Depth, NodeCount: count})
	return nil
}

// EditMode reports whether picking and grafting are enabled.
func (s *Scene) EditMode() bool {
	return s.editMode
}

// SetEditMode turns picking and grafting on or off. Camera orbit is only
// available while edit mode is off; turning it off drops the highlight.
func (s *Scene) SetEditMode(on bool) {
	if s.editMode == on {
		return
	}
	s.editMode = on
	if !on {
		s.unhover()
	}
}

// Spinning reports whether the spin step is scheduled.
func (s *Scene) Spinning() bool {
	return s.spinner.Enabled()
}

// SetSpin schedules or cancels the per-frame spin step.
func (s *Scene) SetSpin(on bool) {
	if on {
		s.spinner.Enable(s)
	} else {
		s.spinner.Disable()
	}
}

// SpinSteps returns how many spin increments have been applied.
func (s *Scene) SpinSteps() int {
	return s.spinner.Steps()
}

// OnPointerMove picks the branch under the pointer at ndc and updates the
// hover highlight. Does nothing outside edit mode.
func (s *Scene) OnPointerMove(ndc Vec2) {
	if !s.editMode {
		return
	}
	hit, ok := ResolveBranch(ndc, s.camera, s.tree, []NodeID{s.root})
	if !s.selection.Update(s.tree, hit, ok) {
		return
	}
	if ok {
		n := s.tree.Node(hit)
		s.emit(TreeEvent{Type: EventHover, Node: hit, Depth: n.Depth, Slot: n.Slot})
	} else {
		s.emit(TreeEvent{Type: EventUnhover})
	}
}

func (s *Scene) unhover() {
	if s.selection.State() == SelectionHovering {
		s.selection.Clear(s.tree)
		s.emit(TreeEvent{Type: EventUnhover})
	}
}

// OnPointerDown grafts onto the hovered branch when edit mode is on. It
// returns the new branch, or false when nothing was grafted.
func (s *Scene) OnPointerDown() (NodeID, bool) {
	if !s.editMode {
		return 0, false
	}
	target, ok := s.selection.Target()
	if !ok {
		return 0, false
	}
	return s.Graft(target, GraftOptions{})
}

// Graft grafts one subtree onto target with the current branch count and
// starts its grow-in tween. Leaves and unknown ids are ignored.
func (s *Scene) Graft(target NodeID, opts GraftOptions) (NodeID, bool) {
	if opts.Rand == nil {
		opts.Rand = s.rng
	}
	child, ok := s.tree.Graft(target, s.params.BranchCount, opts)
	if !ok {
		return 0, false
	}
	if s.cfg.GrowSeconds > 0 {
		s.startGrow(child)
	}
	s.debugCheckTreeSize()
	n := s.tree.Node(child)
	s.emit(TreeEvent{
		Type:      EventGraft,
		Node:      child,
		Parent:    target,
		Depth:     n.Depth,
		Slot:      n.Slot,
		NodeCount: s.tree.CountBranches(s.root),
	})
	return child, true
}

func (s *Scene) startGrow(id NodeID) {
	g := NewGrowTween(s.tree, id, float32(s.cfg.GrowSeconds), ease.OutBack)
	g.handle = s.AddFrameHandler(func(dt float32) {
		g.Update(dt)
		if g.Done {
			g.handle.Remove()
			s.dropGrow(g)
		}
	})
	s.grows = append(s.grows, g)
}

func (s *Scene) dropGrow(g *GrowTween) {
	for i, c := range s.grows {
		if c == g {
			copy(s.grows[i:], s.grows[i+1:])
			s.grows[len(s.grows)-1] = nil
			s.grows = s.grows[:len(s.grows)-1]
			return
		}
	}
}

// AddFrameHandler registers fn to run once per OnFrame until the returned
// handle is removed.
func (s *Scene) AddFrameHandler(fn func(dt float32)) FrameHandle {
	return s.frames.add(fn)
}

// OnFrame advances one display frame: camera animation, then every frame
// handler (spin, grow tweens), then a redraw request.
func (s *Scene) OnFrame(dt float32) {
	s.camera.update(dt)
	s.frames.run(dt)
	s.redraws++
}

// Redraws returns how many frames have requested a redraw.
func (s *Scene) Redraws() int {
	return s.redraws
}

// SetDebugMode enables or disables debug mode. When enabled, per-frame
// draw stats are logged through glog.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// Update processes input and advances one frame. It satisfies the Update
// half of ebiten.Game.
func (s *Scene) Update() error {
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInput()
	s.OnFrame(float32(1.0 / float64(ebiten.TPS())))
	return nil
}

// Close releases the tree and helper resources.
func (s *Scene) Close() {
	s.SetSpin(false)
	for _, g := range s.grows {
		g.Cancel()
	}
	s.grows = nil
	s.selection.Reset()
	s.tree.Release()
	s.helpers.Release()
}

func (s *Scene) emit(e TreeEvent) {
	if s.sink != nil {
		s.sink.EmitEvent(e)
	}
}
