package bough

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/spatial/r3"
)

// Camera defaults.
const (
	defaultFOV         = 35 * math.Pi / 180
	defaultNear        = 0.1
	defaultFar         = 200
	defaultMinDistance = 1
	defaultMaxDistance = 95
	maxPitch           = math.Pi/2 - 0.01
)

var defaultEye = r3.Vec{X: -20, Y: 30, Z: 80}

// orbitAnim holds active orbit-to tweens for yaw and pitch.
type orbitAnim struct {
	tweenYaw   *gween.Tween
	tweenPitch *gween.Tween
	doneYaw    bool
	donePitch  bool
}

// Camera is a perspective camera orbiting Target. The eye sits Distance
// away at the given Yaw (about +Y, zero looking down -Z) and Pitch.
type Camera struct {
	Target   r3.Vec
	Distance float64
	Yaw      float64
	Pitch    float64

	// FOV is the vertical field of view in radians.
	FOV       float64
	Near, Far float64

	// MinDistance and MaxDistance clamp Zoom.
	MinDistance, MaxDistance float64

	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	orbitTween *orbitAnim
}

// NewCamera creates a camera with default lens settings looking at the
// origin from the default eye position.
func NewCamera(viewport Rect) *Camera {
	c := &Camera{
		FOV:         defaultFOV,
		Near:        defaultNear,
		Far:         defaultFar,
		MinDistance: defaultMinDistance,
		MaxDistance: defaultMaxDistance,
		Viewport:    viewport,
	}
	c.SetEye(defaultEye)
	return c
}

// SetEye places the camera at eye, keeping Target.
func (c *Camera) SetEye(eye r3.Vec) {
	v := r3.Sub(eye, c.Target)
	d := r3.Norm(v)
	if d == 0 {
		return
	}
	c.Distance = clampFloat(d, c.MinDistance, c.MaxDistance)
	c.Yaw = math.Atan2(v.X, v.Z)
	c.Pitch = clampFloat(math.Asin(v.Y/d), -maxPitch, maxPitch)
}

// Position returns the eye position.
func (c *Camera) Position() r3.Vec {
	sinYaw, cosYaw := math.Sincos(c.Yaw)
	sinPitch, cosPitch := math.Sincos(c.Pitch)
	offset := r3.Vec{
		X: cosPitch * sinYaw,
		Y: sinPitch,
		Z: cosPitch * cosYaw,
	}
	return r3.Add(c.Target, r3.Scale(c.Distance, offset))
}

// Basis returns the camera's orthonormal right, up and forward vectors.
func (c *Camera) Basis() (right, up, forward r3.Vec) {
	forward = r3.Unit(r3.Sub(c.Target, c.Position()))
	right = r3.Unit(r3.Cross(forward, axisY))
	up = r3.Cross(right, forward)
	return right, up, forward
}

func (c *Camera) aspect() float64 {
	if c.Viewport.Height <= 0 {
		return 1
	}
	return c.Viewport.Width / c.Viewport.Height
}

// RayFromNDC returns the ray from the eye through the point at normalized
// device coordinates ndc (x right, y up, both in [-1, 1]).
func (c *Camera) RayFromNDC(ndc Vec2) Ray {
	right, up, forward := c.Basis()
	tanHalf := math.Tan(c.FOV / 2)
	dir := r3.Add(forward, r3.Add(
		r3.Scale(ndc.X*tanHalf*c.aspect(), right),
		r3.Scale(ndc.Y*tanHalf, up),
	))
	return NewRay(c.Position(), dir)
}

// Project maps a world point to NDC. depth is the distance along the view
// direction; ok is false for points outside [Near, Far].
func (c *Camera) Project(p r3.Vec) (ndc Vec2, depth float64, ok bool) {
	right, up, forward := c.Basis()
	v := r3.Sub(p, c.Position())
	depth = r3.Dot(v, forward)
	if depth < c.Near || depth > c.Far {
		return Vec2{}, depth, false
	}
	tanHalf := math.Tan(c.FOV / 2)
	ndc = Vec2{
		X: r3.Dot(v, right) / (depth * tanHalf * c.aspect()),
		Y: r3.Dot(v, up) / (depth * tanHalf),
	}
	return ndc, depth, true
}

// NDCToScreen converts NDC to viewport pixel coordinates.
func (c *Camera) NDCToScreen(ndc Vec2) Vec2 {
	vp := c.Viewport
	return Vec2{
		X: vp.X + (ndc.X+1)/2*vp.Width,
		Y: vp.Y + (1-ndc.Y)/2*vp.Height,
	}
}

// ScreenToNDC converts viewport pixel coordinates to NDC.
func (c *Camera) ScreenToNDC(sx, sy float64) Vec2 {
	vp := c.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		return Vec2{}
	}
	return Vec2{
		X: (sx-vp.X)/vp.Width*2 - 1,
		Y: 1 - (sy-vp.Y)/vp.Height*2,
	}
}

// pixelsPerUnit returns how many screen pixels one world unit spans at the
// given view depth.
func (c *Camera) pixelsPerUnit(depth float64) float64 {
	return c.Viewport.Height / 2 / (math.Tan(c.FOV/2) * depth)
}

// Orbit turns the eye around Target.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.orbitTween = nil
	c.Yaw += dYaw
	c.Pitch = clampFloat(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// Zoom scales Distance by factor, clamped to [MinDistance, MaxDistance].
func (c *Camera) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.Distance = clampFloat(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// OrbitTo animates yaw and pitch to the given angles over duration seconds.
func (c *Camera) OrbitTo(yaw, pitch float64, duration float32, easeFn ease.TweenFunc) {
	pitch = clampFloat(pitch, -maxPitch, maxPitch)
	c.orbitTween = &orbitAnim{
		tweenYaw:   gween.New(float32(c.Yaw), float32(yaw), duration, easeFn),
		tweenPitch: gween.New(float32(c.Pitch), float32(pitch), duration, easeFn),
	}
}

// Animating reports whether an OrbitTo is in progress.
func (c *Camera) Animating() bool {
	return c.orbitTween != nil
}

// update advances the orbit animation. Called from Scene.OnFrame.
func (c *Camera) update(dt float32) {
	a := c.orbitTween
	if a == nil {
		return
	}
	if !a.doneYaw {
		val, done := a.tweenYaw.Update(dt)
		c.Yaw = float64(val)
		a.doneYaw = done
	}
	if !a.donePitch {
		val, done := a.tweenPitch.Update(dt)
		c.Pitch = float64(val)
		a.donePitch = done
	}
	if a.doneYaw && a.donePitch {
		c.orbitTween = nil
	}
}
