// Package termview renders a photoheart formation in a terminal with tcell.
// Particles become depth-shaded glyphs; holding the left mouse button or
// tapping Space expands the heart.
package termview

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/phanxgames/photoheart"
)

// frameInterval is the terminal refresh period (~60 FPS).
const frameInterval = 16 * time.Millisecond

// keyHold is how long one Space key event keeps the heart expanded.
// Terminals report no key release, so auto-repeat keeps it held.
const keyHold = 250 * time.Millisecond

// Cell is one rasterized character.
type Cell struct {
	Rune  rune
	Depth float64
	Color tcell.Color
	set   bool
}

// Grid is a w×h character buffer with a depth test.
type Grid struct {
	W, H  int
	Cells []Cell
}

// NewGrid allocates an empty grid.
func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, Cells: make([]Cell, max(w, 0)*max(h, 0))}
}

// At returns the cell at (x, y).
func (g *Grid) At(x, y int) Cell {
	return g.Cells[y*g.W+x]
}

// plot keeps the nearest cell at (x, y).
func (g *Grid) plot(x, y int, c Cell) {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return
	}
	i := y*g.W + x
	if g.Cells[i].set && g.Cells[i].Depth <= c.Depth {
		return
	}
	c.set = true
	g.Cells[i] = c
}

// Count returns the number of drawn cells.
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.Cells {
		if c.set {
			n++
		}
	}
	return n
}

// Rasterize projects every particle of f through cam into g. The camera
// viewport is measured in half-cells vertically, since terminal cells are
// about twice as tall as wide.
func Rasterize(g *Grid, f *photoheart.Formation, cam *photoheart.Camera) {
	for i := range g.Cells {
		g.Cells[i] = Cell{}
	}
	cam.SetViewport(photoheart.Rect{Width: float64(g.W), Height: float64(2 * g.H)})

	group := f.GroupMatrix()
	near, far := cam.Distance-25, cam.Distance+25
	for _, p := range f.Particles() {
		world := mgl64.TransformCoordinate(p.Position, group)
		proj, ok := cam.Project(world)
		if !ok {
			continue
		}
		x := int(math.Floor(proj.X))
		y := int(math.Floor(proj.Y / 2))
		t := clamp01((proj.Depth - near) / (far - near))
		g.plot(x, y, Cell{
			Rune:  glyphFor(t),
			Depth: proj.Depth,
			Color: depthColor(t, cam.FogFactor(proj.Depth)),
		})
	}
}

// glyphFor picks a glyph by normalized depth, 0 nearest.
func glyphFor(t float64) rune {
	switch {
	case t < 0.35:
		return '♥'
	case t < 0.7:
		return '•'
	default:
		return '·'
	}
}

// depthColor shades from bright pink (near) to a dim rose (far), then
// darkens by the fog factor.
func depthColor(t, fog float64) tcell.Color {
	c := colorful.Hsv(340-20*t, 0.55+0.3*t, (1-0.6*t)*(1-fog))
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// View drives a formation on a tcell screen.
type View struct {
	screen    tcell.Screen
	cfg       photoheart.Config
	ctx       *photoheart.Context
	formation *photoheart.Formation
	camera    *photoheart.Camera
	grid      *Grid

	mouseHeld bool
	keyUntil  time.Time
}

// New creates a view over screen and spawns cfg.Particles.Count particles.
func New(screen tcell.Screen, cfg photoheart.Config, rng *rand.Rand) (*View, error) {
	motion := cfg.Motion
	motion.BaseSize = cfg.Particles.Size
	f := photoheart.NewFormation(cfg.Shape, motion, cfg.Rotation, cfg.Particles.SpawnRadius)
	if err := f.Spawn(cfg.Particles.Count, nil, rng); err != nil {
		return nil, err
	}
	cam := photoheart.NewCamera(cfg.Camera, cfg.Fog.Density, int(time.Second/frameInterval))
	cam.SetLayout(false)

	w, h := screen.Size()
	return &View{
		screen:    screen,
		cfg:       cfg,
		ctx:       photoheart.NewContext(cfg.Clock.TimeStep),
		formation: f,
		camera:    cam,
		grid:      NewGrid(w, h),
	}, nil
}

// Context returns the session state.
func (v *View) Context() *photoheart.Context {
	return v.ctx
}

// Formation returns the formation being drawn.
func (v *View) Formation() *photoheart.Formation {
	return v.formation
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (v *View) HandleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
		if ev.Key() == tcell.KeyRune && ev.Rune() == ' ' {
			v.keyUntil = now.Add(keyHold)
		}
	case *tcell.EventMouse:
		v.mouseHeld = ev.Buttons()&tcell.Button1 != 0
		if v.formation.Rotation.Tilt {
			x, y := ev.Position()
			v.formation.SetTiltTarget(float64(x)/float64(max(v.grid.W, 1))*2-1, float64(y)/float64(max(v.grid.H, 1))*2-1)
		}
	case *tcell.EventResize:
		w, h := v.screen.Size()
		v.grid = NewGrid(w, h)
		v.screen.Sync()
	}
	return true
}

// Step advances one frame at now.
func (v *View) Step(now time.Time) {
	if v.mouseHeld || now.Before(v.keyUntil) {
		v.ctx.Press()
	} else {
		v.ctx.Release()
	}
	v.ctx.Advance()
	v.formation.Step(v.ctx)
}

// Render rasterizes the formation and shows it.
func (v *View) Render() {
	Rasterize(v.grid, v.formation, v.camera)
	v.screen.Clear()
	for y := 0; y < v.grid.H; y++ {
		for x := 0; x < v.grid.W; x++ {
			c := v.grid.At(x, y)
			if !c.set {
				continue
			}
			v.screen.SetContent(x, y, c.Rune, nil, tcell.StyleDefault.Foreground(c.Color))
		}
	}
	label := " hold mouse or Space · q quits "
	if v.ctx.Expanding() {
		label = " ♥ expanding ♥ "
	}
	for i, r := range []rune(label) {
		v.screen.SetContent((v.grid.W-len([]rune(label)))/2+i, v.grid.H-1, r, nil,
			tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(v.ctx.Expanding()))
	}
	v.screen.Show()
}

// pollEvents forwards screen events until the screen is finalized or ctx
// is done.
func pollEvents(ctx context.Context, screen tcell.Screen, out chan<- tcell.Event) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// Run drives the view until ctx is done or the user quits. The screen must
// already be initialized; Run does not call Fini.
func (v *View) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	v.screen.EnableMouse()
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go pollEvents(ctx, v.screen, eventChan)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-eventChan:
			if !v.HandleEvent(ev, time.Now()) {
				return nil
			}
		case now := <-ticker.C:
			v.Step(now)
			v.Render()
		}
	}
}
