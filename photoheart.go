package photoheart

import (
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// Vec2 is a 2D point in screen or texture space.
type Vec2 struct {
	X, Y float64
}

// WhitePixel is a 1x1 white image used for solid color quads (button, fog plates).
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Range is a general-purpose min/max range.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Random returns a random float64 in [Min, Max] drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Phase is the interaction state of a formation.
type Phase uint8

const (
	PhaseResting   Phase = iota // particles settle on the heart surface
	PhaseExpanding              // hold control pressed; heart blown outward
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseResting:
		return "resting"
	case PhaseExpanding:
		return "expanding"
	default:
		return "unknown"
	}
}

// EventType identifies a kind of hold-control event.
type EventType uint8

const (
	EventPress   EventType = iota // press-start on the hold control
	EventRelease                  // press-end, pointer leave, or touch end
)

// MaskShape selects how photos are cropped before use as sprites.
type MaskShape uint8

const (
	MaskHeart  MaskShape = iota // crop to the heart outline
	MaskCircle                  // crop to an inscribed circle
	MaskNone                    // square cover-fit, no crop
)

// clamp01 clamps v into [0, 1].
func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
