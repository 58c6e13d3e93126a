package photoheart

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"
)

// heartCurveStep is the parameter step used to trace the mask outline.
const heartCurveStep = 0.05

// heartOutline traces the heart curve into a size×size texture, centered,
// with y pointing down. One curve unit maps to size/35 pixels so the whole
// heart (32 wide, about 29 tall) fits with a small margin.
func heartOutline(size int) []Vec2 {
	half := float64(size) / 2
	s := float64(size) / 35
	pts := make([]Vec2, 0, int(math.Floor(2*math.Pi/heartCurveStep))+2)
	for t := 0.0; t <= 2*math.Pi; t += heartCurveStep {
		x, y := HeartCurve(t)
		pts = append(pts, Vec2{X: half + x*s, Y: half - y*s})
	}
	return pts
}

// fillHeart fills the heart silhouette into dst with clr. The outline is
// fanned from the texture center, which lies inside the heart.
func fillHeart(dst *ebiten.Image, size int, clr Color) {
	outline := heartOutline(size)
	half := float32(size) / 2
	verts := make([]ebiten.Vertex, 0, len(outline)+1)
	verts = append(verts, ebiten.Vertex{DstX: half, DstY: half, SrcX: 0.5, SrcY: 0.5,
		ColorR: float32(clr.R), ColorG: float32(clr.G), ColorB: float32(clr.B), ColorA: float32(clr.A)})
	for _, p := range outline {
		verts = append(verts, ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y), SrcX: 0.5, SrcY: 0.5,
			ColorR: float32(clr.R), ColorG: float32(clr.G), ColorB: float32(clr.B), ColorA: float32(clr.A),
		})
	}
	n := len(outline)
	inds := make([]uint16, 0, n*3)
	for i := 1; i <= n; i++ {
		next := i%n + 1
		inds = append(inds, 0, uint16(i), uint16(next))
	}
	var op ebiten.DrawTrianglesOptions
	op.AntiAlias = true
	dst.DrawTriangles(verts, inds, WhitePixel, &op)
}

// coverFit scales a srcW×srcH image to cover a size×size square, centered.
// Returns the drawn size and the top-left offset (zero or negative).
func coverFit(srcW, srcH, size int) (drawW, drawH, ox, oy float64) {
	s := float64(size)
	aspect := float64(srcW) / float64(srcH)
	if aspect > 1 {
		drawH = s
		drawW = s * aspect
		ox = -(drawW - s) / 2
	} else {
		drawW = s
		drawH = s / aspect
		oy = -(drawH - s) / 2
	}
	return drawW, drawH, ox, oy
}

// MaskPhoto crops src into a size×size sprite texture: the silhouette is
// drawn first, then the photo is composited source-in so it only lands
// inside the silhouette. MaskNone skips the silhouette.
func MaskPhoto(src image.Image, size int, shape MaskShape) *ebiten.Image {
	dst := ebiten.NewImage(size, size)
	blend := ebiten.BlendSourceIn
	switch shape {
	case MaskHeart:
		fillHeart(dst, size, ColorWhite)
	case MaskCircle:
		r := float32(size) / 2
		vector.DrawFilledCircle(dst, r, r, r, color.White, true)
	default:
		blend = ebiten.BlendSourceOver
	}

	if src == nil {
		return dst
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return dst
	}
	photo := ebiten.NewImageFromImage(src)
	drawW, drawH, ox, oy := coverFit(b.Dx(), b.Dy(), size)

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(drawW/float64(b.Dx()), drawH/float64(b.Dy()))
	op.GeoM.Translate(ox, oy)
	op.Filter = ebiten.FilterLinear
	op.Blend = blend
	dst.DrawImage(photo, &op)
	photo.Deallocate()
	return dst
}

// fallbackColor picks a pink-to-violet tint for fallback sprite i.
func fallbackColor(i int) Color {
	h := 330 + math.Mod(float64(i)*37, 60) - 30
	c := colorful.Hsv(math.Mod(h+360, 360), 0.65, 1)
	return Color{R: c.R, G: c.G, B: c.B, A: 1}
}

// FallbackTextures returns n solid heart sprites in varied tints. They stand
// in for photos when none could be loaded.
func FallbackTextures(n, size int) []*ebiten.Image {
	if n <= 0 {
		n = 1
	}
	out := make([]*ebiten.Image, n)
	for i := range out {
		img := ebiten.NewImage(size, size)
		fillHeart(img, size, fallbackColor(i))
		out[i] = img
	}
	return out
}

// fallbackVariants is how many tints FallbackTextures produces for a scene.
const fallbackVariants = 5

// BuildTextures turns a load batch into sprite textures. Loaded photos are
// masked in input order; failed entries are skipped. With nothing loaded the
// result is a set of fallback hearts, never an empty slice.
func BuildTextures(results []LoadResult, size int, shape MaskShape) ([]*ebiten.Image, LoadSummary) {
	summary := Summarize(results)
	if summary.Loaded == 0 {
		return FallbackTextures(fallbackVariants, size), summary
	}
	out := make([]*ebiten.Image, 0, summary.Loaded)
	for _, r := range results {
		if r.Err != nil || r.Image == nil {
			continue
		}
		out = append(out, MaskPhoto(r.Image, size, shape))
	}
	return out, summary
}
