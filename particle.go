package photoheart

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// Particle is one photo sprite of the formation. Position and Scale are in
// formation-local world units; the group rotation is applied at render time.
type Particle struct {
	// Index is the stable flat index in [0, count).
	Index int
	// Position is the current local position, chasing the surface target.
	Position mgl64.Vec3
	// Scale is the current sprite edge length in world units.
	Scale float64
	// Personality is the resting size multiplier, fixed at spawn.
	Personality float64
	// Image is the sprite texture. Nil draws nothing.
	Image *ebiten.Image
}

// Motion controls how particles chase their targets.
type Motion struct {
	// RestingSpeed and ExpandingSpeed are the per-frame smoothing factors
	// for position, in (0, 1].
	RestingSpeed   float64 `yaml:"restingSpeed"`
	ExpandingSpeed float64 `yaml:"expandingSpeed"`
	// BaseSize is the sprite edge length. Set from the layout, not YAML.
	BaseSize float64 `yaml:"-"`
	// ExpandedSize multiplies BaseSize while expanding.
	ExpandedSize float64 `yaml:"expandedSize"`
	// SizeVariation is the amplitude of the per-particle resting size spread.
	SizeVariation float64 `yaml:"sizeVariation"`
}

// DefaultMotion returns speeds 0.05/0.1, expanded size 1.5 and a ±10% size spread.
func DefaultMotion() Motion {
	return Motion{
		RestingSpeed:   0.05,
		ExpandingSpeed: 0.1,
		BaseSize:       6,
		ExpandedSize:   1.5,
		SizeVariation:  0.1,
	}
}

// personality returns the resting size multiplier for an index.
func personality(index int, variation float64) float64 {
	return 1 + math.Sin(float64(index)*10)*variation
}

// spawnParticle initializes a particle at a random point on a sphere shell
// with radius drawn from radius. phi is taken as acos(2u-1) so points are
// uniform over the shell rather than bunched at the poles.
func spawnParticle(index int, radius Range, motion Motion, rng *rand.Rand) Particle {
	r := radius.Random(rng)
	theta := rng.Float64() * 2 * math.Pi
	phi := math.Acos(2*rng.Float64() - 1)
	sinPhi, cosPhi := math.Sincos(phi)
	sinTheta, cosTheta := math.Sincos(theta)

	return Particle{
		Index:       index,
		Position:    mgl64.Vec3{r * sinPhi * cosTheta, r * sinPhi * sinTheta, r * cosPhi},
		Scale:       motion.BaseSize,
		Personality: personality(index, motion.SizeVariation),
	}
}

// UpdateParticle advances one particle a single frame toward its surface
// target. count is the formation size and must be positive.
func UpdateParticle(p *Particle, count int, ctx *Context, shape Shape, motion Motion) {
	expanding := ctx.Expanding()
	target := shape.SurfacePoint(p.Index, count, ctx.Time, expanding)

	speed := motion.RestingSpeed
	if expanding {
		speed = motion.ExpandingSpeed
	}
	p.Position = SmoothVec(p.Position, target, speed)

	if expanding {
		p.Scale = motion.BaseSize * motion.ExpandedSize
	} else {
		p.Scale = motion.BaseSize * p.Personality
	}
}

// Smooth moves current a fraction k of the way toward target. Repeated
// calls with a fixed target converge geometrically and never overshoot for
// k in (0, 1].
func Smooth(current, target, k float64) float64 {
	return current + (target-current)*k
}

// SmoothVec applies Smooth to each component.
func SmoothVec(current, target mgl64.Vec3, k float64) mgl64.Vec3 {
	return mgl64.Vec3{
		Smooth(current[0], target[0], k),
		Smooth(current[1], target[1], k),
		Smooth(current[2], target[2], k),
	}
}
