package photoheart

import (
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

func TestCommandLessOrEqual(t *testing.T) {
	far := RenderCommand{Depth: 60, order: 5}
	near := RenderCommand{Depth: 30, order: 1}
	if !commandLessOrEqual(far, near) {
		t.Error("farther sprite should draw first")
	}
	if commandLessOrEqual(near, far) {
		t.Error("nearer sprite should not draw first")
	}
	a := RenderCommand{Depth: 40, order: 1}
	b := RenderCommand{Depth: 40, order: 2}
	if !commandLessOrEqual(a, b) || commandLessOrEqual(b, a) {
		t.Error("equal depth should keep particle order")
	}
}

func TestMergeSortBackToFront(t *testing.T) {
	depths := []float64{10, 50, 30, 50, 20, 40, 10, 60, 5}
	var d drawList
	for i, z := range depths {
		d.commands = append(d.commands, RenderCommand{Depth: z, order: i})
	}
	d.mergeSort()
	for i := 1; i < len(d.commands); i++ {
		prev, cur := d.commands[i-1], d.commands[i]
		if prev.Depth < cur.Depth {
			t.Fatalf("commands[%d].Depth %v < commands[%d].Depth %v", i-1, prev.Depth, i, cur.Depth)
		}
		if prev.Depth == cur.Depth && prev.order > cur.order {
			t.Fatalf("unstable at %d: order %d before %d", i, prev.order, cur.order)
		}
	}
}

func TestMergeSortReusesBuffer(t *testing.T) {
	var d drawList
	for i := 0; i < 64; i++ {
		d.commands = append(d.commands, RenderCommand{Depth: float64(i), order: i})
	}
	d.mergeSort()
	buf := &d.sortBuf[0]
	d.mergeSort()
	if &d.sortBuf[0] != buf {
		t.Error("sort buffer should be reused")
	}
	if d.commands[0].Depth != 63 {
		t.Errorf("first depth = %v, want 63", d.commands[0].Depth)
	}
}

func TestDrawListBuild(t *testing.T) {
	img := ebiten.NewImage(8, 8)
	f := newTestFormation()
	if err := f.Spawn(40, []*ebiten.Image{img}, testRNG()); err != nil {
		t.Fatal(err)
	}
	cam := newTestCamera()

	var d drawList
	d.build(f, cam)
	if len(d.Commands()) != 40 {
		t.Fatalf("len(commands) = %d, want 40", len(d.Commands()))
	}
	for i := 1; i < len(d.commands); i++ {
		if d.commands[i-1].Depth < d.commands[i].Depth {
			t.Fatal("commands not sorted back to front")
		}
	}
	for _, c := range d.commands {
		if c.Size <= 0 || math.IsNaN(c.Size) {
			t.Fatalf("bad size %v", c.Size)
		}
		if c.Fog < 0 || c.Fog > 1 {
			t.Fatalf("bad fog %v", c.Fog)
		}
	}
}

func TestDrawListSizeMatchesProjection(t *testing.T) {
	img := ebiten.NewImage(8, 8)
	f := NewFormation(DefaultShape(), DefaultMotion(), DefaultRotation(), Range{})
	if err := f.Spawn(1, []*ebiten.Image{img}, testRNG()); err != nil {
		t.Fatal(err)
	}
	f.particles[0].Position = mgl64.Vec3{}
	f.particles[0].Scale = 6
	cam := newTestCamera()

	var d drawList
	d.build(f, cam)
	p, _ := cam.Project(mgl64.Vec3{})
	if got, want := d.commands[0].Size, 6*p.PixelsPerUnit; !approxEqual(got, want, 1e-9) {
		t.Errorf("Size = %v, want %v", got, want)
	}
	if !approxEqual(d.commands[0].X, 400, epsilon) || !approxEqual(d.commands[0].Y, 300, epsilon) {
		t.Errorf("center = (%v, %v), want (400, 300)", d.commands[0].X, d.commands[0].Y)
	}
}

func TestDrawListSkipsNilImagesAndCulls(t *testing.T) {
	f := NewFormation(DefaultShape(), DefaultMotion(), DefaultRotation(), Range{})
	if err := f.Spawn(3, nil, testRNG()); err != nil {
		t.Fatal(err)
	}
	cam := newTestCamera()
	var d drawList
	d.build(f, cam)
	if len(d.commands) != 0 {
		t.Errorf("nil images should not be drawn, got %d", len(d.commands))
	}

	img := ebiten.NewImage(4, 4)
	for i := range f.particles {
		f.particles[i].Image = img
		f.particles[i].Scale = 1
	}
	f.particles[0].Position = mgl64.Vec3{500, 0, 0}
	f.particles[1].Position = mgl64.Vec3{0, 0, 0}
	f.particles[2].Position = mgl64.Vec3{0, 0, 100}
	d.cullEnabled = true
	d.build(f, cam)
	if len(d.commands) != 1 || d.commands[0].order != 1 {
		t.Errorf("want only particle 1 visible, got %+v", d.commands)
	}
}

func TestSpriteGeoMCentersSprite(t *testing.T) {
	cmd := RenderCommand{Image: ebiten.NewImage(10, 10), X: 100, Y: 50, Size: 20}
	m := spriteGeoM(&cmd)
	x0, y0 := m.Apply(0, 0)
	x1, y1 := m.Apply(10, 10)
	if x0 != 90 || y0 != 40 || x1 != 110 || y1 != 60 {
		t.Errorf("corners = (%v,%v)-(%v,%v), want (90,40)-(110,60)", x0, y0, x1, y1)
	}
}

func TestFogMatrixMixesTowardFog(t *testing.T) {
	cm := fogMatrix(Color{R: 1, G: 1, B: 1, A: 1}, 0.5)
	got := color.NRGBAModel.Convert(cm.Apply(color.NRGBA{0, 0, 0, 255})).(color.NRGBA)
	if got.R < 126 || got.R > 129 || got.A != 255 {
		t.Errorf("black mixed halfway to white = %+v, want ~128 gray", got)
	}
}

func TestSubmitDraws(t *testing.T) {
	src := ebiten.NewImage(4, 4)
	src.Fill(color.White)
	target := ebiten.NewImage(32, 32)
	d := drawList{commands: []RenderCommand{
		{Image: src, X: 8, Y: 8, Size: 8},
		{Image: src, X: 24, Y: 24, Size: 8, Fog: 0.5},
	}}
	d.submit(target, Color{R: 1, G: 0, B: 0, A: 1})
	d.submit(target, Color{A: 1})
}
