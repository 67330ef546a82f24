package bough

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"gonum.org/v1/gonum/spatial/r3"
)

// CommandType identifies the kind of render command.
type CommandType uint8

const (
	CommandSegment CommandType = iota // shaded quad strip via DrawTriangles
	CommandLine                       // single helper line via vector.StrokeLine
)

const (
	defaultCommandCap = 1024
	minHalfWidth      = 0.5 // pixels
	maxBatchVerts     = math.MaxUint16 - segmentVertCount
	segmentVertCount  = 6
)

// color32 is a compact RGBA color using float32, for render commands only.
type color32 struct {
	R, G, B, A float32
}

func toColor32(c Color) color32 {
	return color32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

func (c color32) rgba() color.RGBA {
	return color.RGBA{
		R: uint8(c.R*c.A*255 + 0.5),
		G: uint8(c.G*c.A*255 + 0.5),
		B: uint8(c.B*c.A*255 + 0.5),
		A: uint8(c.A*255 + 0.5),
	}
}

// RenderCommand is a single projected draw instruction. Depth is the view
// depth used for far-to-near ordering.
type RenderCommand struct {
	Type      CommandType
	Node      NodeID
	Depth     float64
	Color     color32
	treeOrder int // assigned during traversal for stable sort

	// Segment-only: a slice header into the node's cached mesh.
	meshVerts []ebiten.Vertex

	// Line-only: screen-space endpoints.
	X0, Y0, X1, Y1 float32
}

// segmentMesh is the per-segment vertex buffer, rewritten every frame the
// segment is drawn and dropped when the segment is freed.
type segmentMesh struct {
	verts [segmentVertCount]ebiten.Vertex
}

// segmentIndices triangulates a segment's two columns of three vertices
// (left edge, center, right edge) at base and tip.
var segmentIndices = [...]uint16{0, 1, 3, 1, 4, 3, 1, 2, 4, 2, 5, 4}

// segmentShade is the brightness of the left edge, center and right edge.
var segmentShade = [3]float32{0.7, 1, 0.45}

func (n *Node) releaseMesh() {
	n.mesh = nil
}

func (n *Node) ensureMesh() *segmentMesh {
	if n.mesh == nil {
		n.mesh = &segmentMesh{}
	}
	return n.mesh
}

// appendTreeCommands projects every visible primitive at or below root and
// appends one command per segment and per line. World transforms must be
// current. Primitives that cross the near or far plane are dropped.
func appendTreeCommands(dst []RenderCommand, cam *Camera, t *Tree, root NodeID, order *int) []RenderCommand {
	t.Walk(root, func(n *Node) bool {
		if !n.Visible {
			return false
		}
		switch n.Kind {
		case KindSegment:
			if cmd, ok := segmentCommand(cam, n); ok {
				*order++
				cmd.treeOrder = *order
				dst = append(dst, cmd)
			}
		case KindLines:
			for _, l := range n.Lines {
				cmd, ok := lineCommand(cam, n.world.Apply(l.A), n.world.Apply(l.B), l.Color)
				if !ok {
					continue
				}
				cmd.Node = n.ID
				*order++
				cmd.treeOrder = *order
				dst = append(dst, cmd)
			}
		}
		return true
	})
	return dst
}

// segmentCommand projects a segment's axis and writes its screen-space
// quad strip into the node's mesh.
func segmentCommand(cam *Camera, n *Node) (RenderCommand, bool) {
	w := n.world
	if w.Scale <= 0 {
		return RenderCommand{}, false
	}
	base := w.Apply(r3.Vec{})
	tip := w.Apply(r3.Vec{Y: n.Length})
	ndcBase, depthBase, ok := cam.Project(base)
	if !ok {
		return RenderCommand{}, false
	}
	ndcTip, depthTip, ok := cam.Project(tip)
	if !ok {
		return RenderCommand{}, false
	}
	sb := cam.NDCToScreen(ndcBase)
	st := cam.NDCToScreen(ndcTip)

	// Screen-space normal to the projected axis. A segment viewed end-on
	// collapses to a point, so fall back to a horizontal normal.
	ax, ay := st.X-sb.X, st.Y-sb.Y
	l := math.Hypot(ax, ay)
	nx, ny := 1.0, 0.0
	if l > 1e-6 {
		nx, ny = -ay/l, ax/l
	}
	hb := math.Max(n.Radius*segmentFlare*w.Scale*cam.pixelsPerUnit(depthBase), minHalfWidth)
	ht := math.Max(n.Radius*w.Scale*cam.pixelsPerUnit(depthTip), minHalfWidth)

	c := toColor32(n.Color)
	m := n.ensureMesh()
	ends := [2]struct {
		p Vec2
		h float64
	}{{sb, hb}, {st, ht}}
	for row, e := range ends {
		for col := 0; col < 3; col++ {
			off := float64(1 - col) // +1 left, 0 center, -1 right
			shade := segmentShade[col]
			m.verts[row*3+col] = ebiten.Vertex{
				DstX:   float32(e.p.X + nx*e.h*off),
				DstY:   float32(e.p.Y + ny*e.h*off),
				SrcX:   1,
				SrcY:   1,
				ColorR: c.R * shade,
				ColorG: c.G * shade,
				ColorB: c.B * shade,
				ColorA: c.A,
			}
		}
	}
	return RenderCommand{
		Type:      CommandSegment,
		Node:      n.ID,
		Depth:     (depthBase + depthTip) / 2,
		Color:     c,
		meshVerts: m.verts[:],
	}, true
}

func lineCommand(cam *Camera, a, b r3.Vec, c Color) (RenderCommand, bool) {
	na, da, ok := cam.Project(a)
	if !ok {
		return RenderCommand{}, false
	}
	nb, db, ok := cam.Project(b)
	if !ok {
		return RenderCommand{}, false
	}
	sa := cam.NDCToScreen(na)
	sb := cam.NDCToScreen(nb)
	return RenderCommand{
		Type:  CommandLine,
		Depth: (da + db) / 2,
		Color: toColor32(c),
		X0:    float32(sa.X),
		Y0:    float32(sa.Y),
		X1:    float32(sb.X),
		Y1:    float32(sb.Y),
	}, true
}

// buildCommands refreshes world transforms and collects the frame's
// commands from the helpers and the live tree.
func (s *Scene) buildCommands() {
	s.commands = s.commands[:0]
	order := 0
	if s.helpers != nil {
		s.helpers.UpdateWorld()
		s.commands = appendTreeCommands(s.commands, s.camera, s.helpers, s.helpersRoot, &order)
	}
	s.tree.UpdateWorld()
	s.commands = appendTreeCommands(s.commands, s.camera, s.tree, s.root, &order)
}

// --- Merge sort ---

// commandLessOrEqual returns true if a should be drawn before or together
// with b: farther first, then traversal order.
func commandLessOrEqual(a, b RenderCommand) bool {
	if a.Depth != b.Depth {
		return a.Depth > b.Depth
	}
	return a.treeOrder <= b.treeOrder
}

// sortCommands sorts cmds in place far-to-near using buf as scratch space
// and returns the possibly grown buffer. Bottom-up merge sort: no
// allocations once buf reaches the high-water mark.
func sortCommands(cmds, buf []RenderCommand) []RenderCommand {
	n := len(cmds)
	if n <= 1 {
		return buf
	}
	if cap(buf) < n {
		buf = make([]RenderCommand, n)
	}
	buf = buf[:n]

	a, b := cmds, buf
	swapped := false
	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			mid := min(i+width, n)
			hi := min(i+2*width, n)
			mergeRun(a, b, i, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}
	if swapped {
		copy(cmds, buf)
	}
	return buf
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []RenderCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	k += copy(dst[k:], src[i:mid])
	copy(dst[k:], src[j:hi])
}

// --- Submission ---

var whiteSubImage *ebiten.Image

func whitePixel() *ebiten.Image {
	if whiteSubImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// submit draws the sorted commands. Consecutive segments share one
// DrawTriangles call; a line or a full index range flushes the batch.
func (s *Scene) submit(screen *ebiten.Image) (drawCalls int) {
	s.verts = s.verts[:0]
	s.inds = s.inds[:0]
	flush := func() {
		if len(s.inds) == 0 {
			return
		}
		screen.DrawTriangles(s.verts, s.inds, whitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
		drawCalls++
		s.verts = s.verts[:0]
		s.inds = s.inds[:0]
	}
	for i := range s.commands {
		cmd := &s.commands[i]
		switch cmd.Type {
		case CommandSegment:
			if len(s.verts) > maxBatchVerts {
				flush()
			}
			base := uint16(len(s.verts))
			s.verts = append(s.verts, cmd.meshVerts...)
			for _, idx := range segmentIndices {
				s.inds = append(s.inds, base+idx)
			}
		case CommandLine:
			flush()
			vector.StrokeLine(screen, cmd.X0, cmd.Y0, cmd.X1, cmd.Y1, 1, cmd.Color.rgba(), true)
			drawCalls++
		}
	}
	flush()
	return drawCalls
}

// Draw renders the scene to screen. It satisfies the Draw half of
// ebiten.Game.
func (s *Scene) Draw(screen *ebiten.Image) {
	var stats debugStats
	var t0 time.Time
	if s.debugActive() {
		t0 = time.Now()
	}

	screen.Fill(toColor32(s.ClearColor).rgba())
	s.buildCommands()
	if s.debugActive() {
		stats.traverseTime = time.Since(t0)
		t0 = time.Now()
	}

	s.sortBuf = sortCommands(s.commands, s.sortBuf)
	if s.debugActive() {
		stats.sortTime = time.Since(t0)
		t0 = time.Now()
	}

	stats.drawCallCount = s.submit(screen)
	if s.debugActive() {
		stats.submitTime = time.Since(t0)
		stats.commandCount = len(s.commands)
		s.debugLog(stats)
	}

	if s.cfg.ShowHUD {
		s.drawHUD(screen)
	}
	s.flushScreenshots(screen)
}
