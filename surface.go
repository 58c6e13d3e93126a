package photoheart

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// GoldenAngleDeg is the per-index angular step of the revolve angle.
// Consecutive indices land 137.5 degrees apart, so no two indices share a
// phase and the surface shows no banding as the particle count grows.
const GoldenAngleDeg = 137.5

// Shape holds the tunable constants of the heart surface. The zero value is
// not useful; start from DefaultShape.
type Shape struct {
	// Depth scales z relative to the x amplitude.
	Depth float64 `yaml:"depth"`
	// BeatBase, BeatAmplitude and BeatFreq define the pulse
	// BeatBase + BeatAmplitude*sin(time*BeatFreq).
	BeatBase      float64 `yaml:"beatBase"`
	BeatAmplitude float64 `yaml:"beatAmplitude"`
	BeatFreq      float64 `yaml:"beatFreq"`
	// ExpansionFactor multiplies the whole point while expanding.
	ExpansionFactor float64 `yaml:"expansionFactor"`
	// JitterAmplitude enables a shaking wave on every axis while expanding.
	// Zero disables it.
	JitterAmplitude float64 `yaml:"jitterAmplitude"`
	JitterFreq      float64 `yaml:"jitterFreq"`
	JitterPhase     float64 `yaml:"jitterPhase"`
}

// DefaultShape returns the reference heart: depth 6/16, beat 0.8±0.05 at
// frequency 3, expansion 1.8, no jitter.
func DefaultShape() Shape {
	return Shape{
		Depth:           6.0 / 16.0,
		BeatBase:        0.8,
		BeatAmplitude:   0.05,
		BeatFreq:        3,
		ExpansionFactor: 1.8,
		JitterAmplitude: 0,
		JitterFreq:      20,
		JitterPhase:     0.7,
	}
}

// Angles returns the curve parameter t and the revolve angle p (both radians)
// for a particle index. t sweeps [0, 2π) evenly across count; p advances by
// the golden angle per index. count must be positive.
func Angles(index, count int) (t, p float64) {
	t = float64(index) / float64(count) * 2 * math.Pi
	p = float64(index) * GoldenAngleDeg * math.Pi / 180
	return t, p
}

// HeartCurve evaluates the classic 2D heart curve at parameter t.
func HeartCurve(t float64) (x, y float64) {
	s := math.Sin(t)
	x = 16 * s * s * s
	y = 13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)
	return x, y
}

// Beat returns the pulse scale factor at the given formation time.
func (s Shape) Beat(time float64) float64 {
	return s.BeatBase + s.BeatAmplitude*math.Sin(time*s.BeatFreq)
}

// SurfacePoint maps a particle index to its target on the heart surface.
// The result is a pure function of its arguments. A non-positive count has
// no defined target and yields the zero vector.
func (s Shape) SurfacePoint(index, count int, time float64, expanding bool) mgl64.Vec3 {
	if count <= 0 {
		return mgl64.Vec3{}
	}
	t, p := Angles(index, count)
	hx, hy := HeartCurve(t)
	sinP, cosP := math.Sincos(p)

	scale := s.Beat(time)
	if expanding {
		scale *= s.ExpansionFactor
	}
	pt := mgl64.Vec3{hx * sinP, hy, hx * cosP * s.Depth}.Mul(scale)

	if expanding && s.JitterAmplitude != 0 {
		phase := time*s.JitterFreq + float64(index)*s.JitterPhase
		pt = pt.Add(mgl64.Vec3{
			math.Sin(phase) * s.JitterAmplitude,
			math.Sin(phase+2*math.Pi/3) * s.JitterAmplitude,
			math.Sin(phase+4*math.Pi/3) * s.JitterAmplitude,
		})
	}
	return pt
}
