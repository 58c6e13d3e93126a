package photoheart

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective camera on the +Z axis looking at the origin. It
// projects formation points to screen space for sprite drawing.
type Camera struct {
	// FOV is the vertical field of view in degrees.
	FOV       float64
	Near, Far float64
	// Distance is the current eye distance from the origin.
	Distance float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect
	// FogDensity is the FogExp2 density. Zero disables fog.
	FogDensity float64

	landscape, portrait float64
	portraitLayout      bool
	laidOut             bool

	spring   harmonica.Spring
	target   float64
	velocity float64

	viewProj mgl64.Mat4
	dirty    bool
}

// Projection is a world point mapped to the screen.
type Projection struct {
	// X and Y are screen coordinates of the point.
	X, Y float64
	// Depth is the distance along the view direction.
	Depth float64
	// PixelsPerUnit converts a world-space size at this depth to pixels.
	PixelsPerUnit float64
}

// NewCamera creates a camera from cfg with the given fog density. tps is the
// update rate the layout spring is tuned for.
func NewCamera(cfg CameraConfig, fogDensity float64, tps int) *Camera {
	if tps <= 0 {
		tps = 60
	}
	return &Camera{
		FOV:        cfg.FOV,
		Near:       cfg.Near,
		Far:        cfg.Far,
		Distance:   cfg.Distance,
		FogDensity: fogDensity,
		landscape:  cfg.Distance,
		portrait:   cfg.PortraitDistance,
		spring:     harmonica.NewSpring(harmonica.FPS(tps), cfg.SpringFrequency, cfg.SpringDamping),
		target:     cfg.Distance,
		dirty:      true,
	}
}

// SetViewport changes the render rectangle.
func (c *Camera) SetViewport(r Rect) {
	if c.Viewport != r {
		c.Viewport = r
		c.dirty = true
	}
}

// SetLayout picks the landscape or portrait eye distance. The first call
// snaps; later switches ease toward the new distance on the spring. Returns
// true when the layout changed.
func (c *Camera) SetLayout(portrait bool) bool {
	if c.laidOut && c.portraitLayout == portrait {
		return false
	}
	c.portraitLayout = portrait
	c.target = c.landscape
	if portrait {
		c.target = c.portrait
	}
	if !c.laidOut {
		c.laidOut = true
		c.Distance = c.target
		c.velocity = 0
	}
	c.dirty = true
	return true
}

// Portrait reports the current layout.
func (c *Camera) Portrait() bool {
	return c.portraitLayout
}

// TargetDistance returns the distance the spring is moving toward.
func (c *Camera) TargetDistance() float64 {
	return c.target
}

// update advances the distance spring. Called from Scene.Update.
func (c *Camera) update() {
	if c.Distance == c.target && c.velocity == 0 {
		return
	}
	c.Distance, c.velocity = c.spring.Update(c.Distance, c.velocity, c.target)
	if math.Abs(c.Distance-c.target) < 1e-4 && math.Abs(c.velocity) < 1e-4 {
		c.Distance, c.velocity = c.target, 0
	}
	c.dirty = true
}

// computeViewProj recomputes the cached view-projection matrix if dirty.
func (c *Camera) computeViewProj() mgl64.Mat4 {
	if !c.dirty {
		return c.viewProj
	}
	c.dirty = false
	aspect := 1.0
	if c.Viewport.Height > 0 {
		aspect = c.Viewport.Width / c.Viewport.Height
	}
	proj := mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, c.Near, c.Far)
	view := mgl64.LookAtV(mgl64.Vec3{0, 0, c.Distance}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	c.viewProj = proj.Mul4(view)
	return c.viewProj
}

// Project maps a world point to the screen. ok is false when the point is
// outside the near/far range.
func (c *Camera) Project(world mgl64.Vec3) (p Projection, ok bool) {
	clip := c.computeViewProj().Mul4x1(world.Vec4(1))
	w := clip.W()
	if w < c.Near || w > c.Far {
		return Projection{Depth: w}, false
	}
	ndcX, ndcY := clip.X()/w, clip.Y()/w
	p.X = c.Viewport.X + (ndcX+1)/2*c.Viewport.Width
	p.Y = c.Viewport.Y + (1-ndcY)/2*c.Viewport.Height
	p.Depth = w
	p.PixelsPerUnit = c.Viewport.Height / 2 / (math.Tan(mgl64.DegToRad(c.FOV)/2) * w)
	return p, true
}

// FogFactor returns how much of the fog color covers a point at depth, in
// [0, 1].
func (c *Camera) FogFactor(depth float64) float64 {
	if c.FogDensity <= 0 {
		return 0
	}
	d := c.FogDensity * depth
	return clamp01(1 - math.Exp(-d*d))
}

// MarkDirty forces a recomputation of the view-projection matrix.
func (c *Camera) MarkDirty() {
	c.dirty = true
}
