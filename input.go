package bough

import (
	"math"

	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"
)

const (
	defaultDragDeadZone = 4.0 // pixels
	orbitSpeed          = 0.008
	wheelZoomBase       = 0.9
	resetOrbitSeconds   = 0.6
)

// --- Pointer state ---

type pointerState struct {
	seen     bool
	down     bool
	dragging bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
}

type pinchState struct {
	active   bool
	prevDist float64
}

// processInput is called from Scene.Update to handle keyboard, wheel, mouse
// and touch input. An injected pointer event replaces real pointer input
// for its frame.
func (s *Scene) processInput() {
	s.processKeys()
	if _, dy := ebiten.Wheel(); dy != 0 {
		s.camera.Zoom(math.Pow(wheelZoomBase, dy))
	}
	if s.processInjectedInput() {
		return
	}
	if s.processTouches() {
		return
	}
	mx, my := ebiten.CursorPosition()
	s.processPointer(float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}

func (s *Scene) processKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		s.SetEditMode(!s.editMode)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.SetSpin(!s.Spinning())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		s.stepParams(1, 0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		s.stepParams(-1, 0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		s.stepParams(0, 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		s.stepParams(0, -1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		s.ResetCamera()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		s.cfg.ShowHUD = !s.cfg.ShowHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		s.Screenshot("manual")
	}
}

// stepParams nudges depth and branch count, clamped to their ranges.
func (s *Scene) stepParams(dDepth, dBranches int) {
	d := clampInt(s.params.Depth+dDepth, 1, PaletteSize)
	b := clampInt(s.params.BranchCount+dBranches, 1, MaxBranchCount)
	if d == s.params.Depth && b == s.params.BranchCount {
		return
	}
	if err := s.SetParams(d, b); err != nil {
		glog.Errorf("bough: set params: %v", err)
	}
}

// ResetCamera animates the camera back to its configured eye position.
func (s *Scene) ResetCamera() {
	home := s.cfg.newCamera()
	s.camera.Distance = home.Distance
	s.camera.OrbitTo(home.Yaw, home.Pitch, resetOrbitSeconds, ease.InOutQuad)
}

// processTouches handles touch input. One finger acts as the pointer; two
// fingers pinch-zoom. Returns false when no finger is down.
func (s *Scene) processTouches() bool {
	s.touchIDs = ebiten.AppendTouchIDs(s.touchIDs[:0])
	switch len(s.touchIDs) {
	case 0:
		s.pinch.active = false
		if s.touchActive {
			// Lift the pointer where the last finger left it.
			s.touchActive = false
			s.processPointer(s.pointer.lastX, s.pointer.lastY, false)
			return true
		}
		return false
	case 1:
		s.pinch.active = false
		s.touchActive = true
		tx, ty := ebiten.TouchPosition(s.touchIDs[0])
		s.processPointer(float64(tx), float64(ty), true)
		return true
	}
	s.touchActive = true
	x0, y0 := ebiten.TouchPosition(s.touchIDs[0])
	x1, y1 := ebiten.TouchPosition(s.touchIDs[1])
	s.processPinch(math.Hypot(float64(x1-x0), float64(y1-y0)))
	return true
}

// processPinch zooms by the ratio of finger distances between frames.
func (s *Scene) processPinch(dist float64) {
	s.pointer.dragging = false
	if !s.pinch.active {
		s.pinch.active = true
		s.pinch.prevDist = dist
		return
	}
	if dist > 0 && s.pinch.prevDist > 0 {
		s.camera.Zoom(s.pinch.prevDist / dist)
	}
	s.pinch.prevDist = dist
}

// processPointer runs the pointer state machine for screen position
// (sx, sy). In edit mode moves pick and a press grafts; otherwise a drag
// past the dead zone orbits the camera.
func (s *Scene) processPointer(sx, sy float64, pressed bool) {
	ps := &s.pointer
	moved := !ps.seen || sx != ps.lastX || sy != ps.lastY
	ps.seen = true
	ndc := s.camera.ScreenToNDC(sx, sy)

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.dragging = false
		ps.startX, ps.startY = sx, sy
		if moved {
			s.OnPointerMove(ndc)
		}
		s.OnPointerDown()
	case !pressed && ps.down:
		ps.down = false
		ps.dragging = false
	case pressed && ps.down:
		if !moved {
			break
		}
		if s.editMode {
			s.OnPointerMove(ndc)
			break
		}
		if !ps.dragging && math.Hypot(sx-ps.startX, sy-ps.startY) > defaultDragDeadZone {
			ps.dragging = true
		}
		if ps.dragging {
			s.camera.Orbit(-(sx-ps.lastX)*orbitSpeed, (sy-ps.lastY)*orbitSpeed)
		}
	default:
		if moved {
			s.OnPointerMove(ndc)
		}
	}
	ps.lastX, ps.lastY = sx, sy
}
