package photoheart

import (
	"errors"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// ErrNoParticles is returned by Spawn when asked for a non-positive count.
var ErrNoParticles = errors.New("photoheart: particle count must be positive")

// Context is the per-session simulation state passed to Formation.Step.
// Several formations may share one Context or each own their own.
type Context struct {
	// Time is the formation clock. It only moves through Advance.
	Time float64
	// TimeStep is added to Time once per frame.
	TimeStep float64

	phase Phase
}

// NewContext returns a resting context at time zero.
func NewContext(timeStep float64) *Context {
	return &Context{TimeStep: timeStep}
}

// Advance moves the clock forward by one fixed step. The animation speed is
// therefore tied to the frame rate.
func (c *Context) Advance() {
	c.Time += c.TimeStep
}

// AdvanceScaled moves the clock by TimeStep*dt*tps, which equals one fixed
// step when dt is exactly one tick. Used for frame-rate independent clocks.
func (c *Context) AdvanceScaled(dt float64, tps int) {
	c.Time += c.TimeStep * dt * float64(tps)
}

// Phase returns the current interaction phase.
func (c *Context) Phase() Phase {
	return c.phase
}

// Expanding reports whether the hold control is pressed.
func (c *Context) Expanding() bool {
	return c.phase == PhaseExpanding
}

// Press moves to PhaseExpanding and reports whether the phase changed.
func (c *Context) Press() bool {
	if c.phase == PhaseExpanding {
		return false
	}
	c.phase = PhaseExpanding
	return true
}

// Release moves to PhaseResting and reports whether the phase changed.
func (c *Context) Release() bool {
	if c.phase == PhaseResting {
		return false
	}
	c.phase = PhaseResting
	return true
}

// Rotation configures the whole-formation transform.
type Rotation struct {
	// SpinPerFrame is added to the Y rotation every Step, in radians.
	SpinPerFrame float64 `yaml:"spinPerFrame"`
	// Tilt enables the pointer-driven tilt.
	Tilt bool `yaml:"tilt"`
	// TiltMax is the tilt angle in radians for a target of ±1.
	TiltMax float64 `yaml:"tiltMax"`
	// TiltSmoothing is the per-frame smoothing factor toward the tilt target.
	TiltSmoothing float64 `yaml:"tiltSmoothing"`
}

// DefaultRotation spins at -0.01 rad/frame with tilt disabled.
func DefaultRotation() Rotation {
	return Rotation{
		SpinPerFrame:  -0.01,
		TiltMax:       0.35,
		TiltSmoothing: 0.05,
	}
}

// Formation owns a set of particles and the group transform they share.
type Formation struct {
	Shape       Shape
	Motion      Motion
	Rotation    Rotation
	SpawnRadius Range

	particles []Particle

	spin                     float64
	tiltX, tiltY             float64
	tiltTargetX, tiltTargetY float64
}

// NewFormation creates an empty formation. Call Spawn to populate it.
func NewFormation(shape Shape, motion Motion, rotation Rotation, spawnRadius Range) *Formation {
	return &Formation{
		Shape:       shape,
		Motion:      motion,
		Rotation:    rotation,
		SpawnRadius: spawnRadius,
	}
}

// Spawn replaces the particle set with count particles scattered on the
// spawn shell. Particle i uses images[i%len(images)]; with no images the
// particles carry a nil Image.
func (f *Formation) Spawn(count int, images []*ebiten.Image, rng *rand.Rand) error {
	if count <= 0 {
		return ErrNoParticles
	}
	f.particles = make([]Particle, count)
	for i := range f.particles {
		f.particles[i] = spawnParticle(i, f.SpawnRadius, f.Motion, rng)
		if len(images) > 0 {
			f.particles[i].Image = images[i%len(images)]
		}
	}
	return nil
}

// Len returns the number of particles.
func (f *Formation) Len() int {
	return len(f.particles)
}

// Particles returns the particle slice. The returned slice MUST NOT be resized.
func (f *Formation) Particles() []Particle {
	return f.particles
}

// SetBaseSize changes the sprite size, e.g. after a layout switch. The new
// size applies from the next Step.
func (f *Formation) SetBaseSize(size float64) {
	f.Motion.BaseSize = size
}

// SetTiltTarget sets the normalized pointer position (-1..1 on each axis)
// the tilt chases. Ignored unless Rotation.Tilt is set.
func (f *Formation) SetTiltTarget(nx, ny float64) {
	f.tiltTargetX = clampUnit(nx)
	f.tiltTargetY = clampUnit(ny)
}

// Spin returns the accumulated Y rotation in radians.
func (f *Formation) Spin() float64 {
	return f.spin
}

// Tilt returns the current smoothed tilt angles (around X, around Y).
func (f *Formation) Tilt() (float64, float64) {
	return f.tiltX, f.tiltY
}

// Step advances the group rotation and every particle by one frame. An empty
// formation is left untouched.
func (f *Formation) Step(ctx *Context) {
	count := len(f.particles)
	if count == 0 {
		return
	}

	f.spin += f.Rotation.SpinPerFrame
	if f.Rotation.Tilt {
		f.tiltX = Smooth(f.tiltX, f.tiltTargetY*f.Rotation.TiltMax, f.Rotation.TiltSmoothing)
		f.tiltY = Smooth(f.tiltY, f.tiltTargetX*f.Rotation.TiltMax, f.Rotation.TiltSmoothing)
	}

	for i := range f.particles {
		UpdateParticle(&f.particles[i], count, ctx, f.Shape, f.Motion)
	}
}

// GroupMatrix returns the formation's parent transform: tilt around X, then
// spin plus tilt around Y.
func (f *Formation) GroupMatrix() mgl64.Mat4 {
	return mgl64.HomogRotate3DX(f.tiltX).Mul4(mgl64.HomogRotate3DY(f.spin + f.tiltY))
}

// WorldPosition returns particle i's position with the group transform applied.
func (f *Formation) WorldPosition(i int) mgl64.Vec3 {
	return mgl64.TransformCoordinate(f.particles[i].Position, f.GroupMatrix())
}

// clampUnit clamps v into [-1, 1].
func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
