package photoheart

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"
)

// RenderCommand is one camera-facing sprite, ready to draw.
type RenderCommand struct {
	Image *ebiten.Image
	// X and Y are the sprite center in screen space.
	X, Y float64
	// Size is the sprite edge length in pixels.
	Size  float64
	Depth float64
	// Fog is the fog factor in [0, 1].
	Fog   float64
	order int // particle index, for a stable sort
}

// drawList collects and orders sprite commands each frame. Buffers are kept
// between frames.
type drawList struct {
	commands []RenderCommand
	sortBuf  []RenderCommand

	// cullEnabled skips sprites entirely outside the viewport.
	cullEnabled bool
}

// build emits a command for every visible particle of f, then sorts them
// back to front.
func (d *drawList) build(f *Formation, cam *Camera) {
	d.commands = d.commands[:0]
	group := f.GroupMatrix()
	for i, p := range f.Particles() {
		if p.Image == nil {
			continue
		}
		world := mgl64.TransformCoordinate(p.Position, group)
		proj, ok := cam.Project(world)
		if !ok {
			continue
		}
		size := p.Scale * proj.PixelsPerUnit
		if d.cullEnabled && !spriteVisible(proj.X, proj.Y, size, cam.Viewport) {
			continue
		}
		d.commands = append(d.commands, RenderCommand{
			Image: p.Image,
			X:     proj.X,
			Y:     proj.Y,
			Size:  size,
			Depth: proj.Depth,
			Fog:   cam.FogFactor(proj.Depth),
			order: i,
		})
	}
	d.mergeSort()
}

// spriteVisible reports whether a size×size sprite centered at (x, y)
// overlaps the viewport.
func spriteVisible(x, y, size float64, vp Rect) bool {
	h := size / 2
	return x+h >= vp.X && x-h <= vp.X+vp.Width &&
		y+h >= vp.Y && y-h <= vp.Y+vp.Height
}

// --- Merge sort ---

// commandLessOrEqual returns true if a should be drawn before or with b:
// farther sprites first. Using <= for order ensures stability.
func commandLessOrEqual(a, b RenderCommand) bool {
	if a.Depth != b.Depth {
		return a.Depth > b.Depth
	}
	return a.order <= b.order
}

// mergeSort sorts d.commands in-place using d.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches high-water mark.
func (d *drawList) mergeSort() {
	n := len(d.commands)
	if n <= 1 {
		return
	}
	if cap(d.sortBuf) < n {
		d.sortBuf = make([]RenderCommand, n)
	}
	d.sortBuf = d.sortBuf[:n]

	a := d.commands
	b := d.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(d.commands, d.sortBuf)
	}
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
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}

// --- Submission ---

// spriteGeoM scales the texture to cmd.Size and centers it on (X, Y).
func spriteGeoM(cmd *RenderCommand) ebiten.GeoM {
	var m ebiten.GeoM
	b := cmd.Image.Bounds()
	m.Scale(cmd.Size/float64(b.Dx()), cmd.Size/float64(b.Dy()))
	m.Translate(cmd.X-cmd.Size/2, cmd.Y-cmd.Size/2)
	return m
}

// submit draws the sorted commands into target. Black fog only darkens, so
// it stays on the ColorScale path; a colored fog needs a color matrix to
// mix toward the fog color.
func (d *drawList) submit(target *ebiten.Image, fog Color) {
	blackFog := fog.R == 0 && fog.G == 0 && fog.B == 0
	var op ebiten.DrawImageOptions
	op.Filter = ebiten.FilterLinear
	var cop colorm.DrawImageOptions
	cop.Filter = ebiten.FilterLinear

	for i := range d.commands {
		cmd := &d.commands[i]
		if cmd.Fog <= 0 || blackFog {
			op.GeoM = spriteGeoM(cmd)
			op.ColorScale.Reset()
			k := float32(1 - cmd.Fog)
			op.ColorScale.Scale(k, k, k, 1)
			target.DrawImage(cmd.Image, &op)
			continue
		}
		cop.GeoM = spriteGeoM(cmd)
		colorm.DrawImage(target, cmd.Image, fogMatrix(fog, cmd.Fog), &cop)
	}
}

// fogMatrix mixes a color toward fog by factor f, leaving alpha untouched.
func fogMatrix(fog Color, f float64) colorm.ColorM {
	var cm colorm.ColorM
	cm.Scale(1-f, 1-f, 1-f, 1)
	cm.Translate(fog.R*f, fog.G*f, fog.B*f, 0)
	return cm
}

// Commands returns the last built draw list, back to front.
func (d *drawList) Commands() []RenderCommand {
	return d.commands
}
