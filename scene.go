package photoheart

import (
	"context"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// EventStore is the interface for optional ECS integration.
// When set on a Scene, phase changes are forwarded to the ECS.
type EventStore interface {
	EmitEvent(event PhaseEvent)
}

// PhaseEvent reports a change of the interaction phase.
type PhaseEvent struct {
	Type  EventType
	Phase Phase
	// Time is the formation clock when the change happened.
	Time  float64
	Frame int
}

// Scene is the top-level ebiten.Game: it owns the formation, camera, hold
// control, photo loading and render buffers.
type Scene struct {
	cfg Config

	ctx       *Context
	formation *Formation
	camera    *Camera
	button    *HoldButton
	view      *buttonView
	draw      drawList
	rng       *rand.Rand

	store    EventStore
	notifier warnOnce
	photoFS  fs.FS
	debug    bool

	// ShowFPS draws the FPS/TPS overlay in the top-left corner.
	ShowFPS bool
	fps     fpsWidget

	width, height int
	frame         int
	lastUpdate    time.Time

	// Loading state. textures is nil until the batch is applied.
	loadStarted bool
	loadCancel  context.CancelFunc
	loadCh      chan []LoadResult
	summary     LoadSummary
	textures    []*ebiten.Image

	// ScreenshotDir is the directory where screenshots are saved.
	ScreenshotDir   string
	screenshotQueue []string

	injectQueue []syntheticPointerEvent
	testRunner  *TestRunner

	updateFunc func() error
	stepFuncs  []func(*Context)
}

// NewScene creates a scene from cfg. Photos start loading on the first
// Update, or earlier through StartLoading.
func NewScene(cfg Config) *Scene {
	s := &Scene{
		cfg:           cfg,
		ctx:           NewContext(cfg.Clock.TimeStep),
		camera:        NewCamera(cfg.Camera, cfg.Fog.Density, ebiten.DefaultTPS),
		button:        NewHoldButton(Rect{}),
		view:          newButtonView(cfg.Button),
		rng:           rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
		notifier:      warnOnce{n: ZenityNotifier{}},
		ShowFPS:       cfg.ShowFPS,
		ScreenshotDir: cfg.ScreenshotDir,
		debug:         cfg.Debug,
	}
	motion := cfg.Motion
	motion.BaseSize = cfg.Particles.Size
	s.formation = NewFormation(cfg.Shape, motion, cfg.Rotation, cfg.Particles.SpawnRadius)
	s.draw.cullEnabled = true
	s.button.OnChange(s.onButton)
	return s
}

// Config returns the scene's configuration.
func (s *Scene) Config() Config {
	return s.cfg
}

// Context returns the session state driving the formation.
func (s *Scene) Context() *Context {
	return s.ctx
}

// Formation returns the particle formation.
func (s *Scene) Formation() *Formation {
	return s.formation
}

// Camera returns the scene camera.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// Button returns the hold control.
func (s *Scene) Button() *HoldButton {
	return s.button
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EventStore) {
	s.store = store
}

// SetNotifier replaces the warning sink. Only the first warning of a scene
// is delivered.
func (s *Scene) SetNotifier(n Notifier) {
	s.notifier = warnOnce{n: n}
}

// SetPhotoFS serves relative photo paths from fsys instead of the OS.
func (s *Scene) SetPhotoFS(fsys fs.FS) {
	s.photoFS = fsys
}

// SetRand replaces the random source used for spawn positions.
func (s *Scene) SetRand(rng *rand.Rand) {
	s.rng = rng
}

// SetUpdateFunc sets a callback run at the end of every Update. A non-nil
// error (such as ebiten.Termination) stops the game.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// OnStep registers fn to run after every formation step.
func (s *Scene) OnStep(fn func(*Context)) {
	s.stepFuncs = append(s.stepFuncs, fn)
}

// SetDebugMode enables or disables per-frame timing stats on stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// Loaded reports whether the particles have been spawned.
func (s *Scene) Loaded() bool {
	return s.textures != nil
}

// LoadSummary returns the outcome of the photo batch. Valid once Loaded.
func (s *Scene) LoadSummary() LoadSummary {
	return s.summary
}

// StartLoading begins loading the configured photos in the background.
// Calling it again is a no-op.
func (s *Scene) StartLoading(ctx context.Context) {
	if s.loadStarted {
		return
	}
	s.loadStarted = true
	ctx, s.loadCancel = context.WithCancel(ctx)
	s.loadCh = make(chan []LoadResult, 1)
	paths := s.cfg.Photos.ResolvedPaths()
	opts := LoadOptions{
		FS:          s.photoFS,
		Timeout:     s.cfg.Photos.LoadTimeout,
		Concurrency: s.cfg.Photos.Concurrency,
	}
	go func() {
		s.loadCh <- LoadPhotos(ctx, paths, opts)
	}()
}

// Close cancels any outstanding photo loads.
func (s *Scene) Close() {
	if s.loadCancel != nil {
		s.loadCancel()
	}
}

// pollLoad applies the load batch once it arrives. Never blocks.
func (s *Scene) pollLoad() {
	if s.textures != nil || s.loadCh == nil {
		return
	}
	select {
	case results := <-s.loadCh:
		s.applyResults(results)
	default:
	}
}

// applyResults masks the loaded photos and spawns the particles.
func (s *Scene) applyResults(results []LoadResult) {
	textures, summary := BuildTextures(results, s.cfg.Photos.TextureSize, s.cfg.Photos.Mask)
	s.summary = summary
	if err := summary.Err(); err != nil {
		s.notifier.Warn("Photo Heart", fmt.Sprintf("%v: showing %d placeholder hearts instead", err, len(textures)))
	}
	if err := s.SetTextures(textures); err != nil {
		s.notifier.Warn("Photo Heart", err.Error())
	}
}

// SetTextures spawns the particles with the given sprite textures,
// replacing any previous set.
func (s *Scene) SetTextures(textures []*ebiten.Image) error {
	if err := s.formation.Spawn(s.cfg.Particles.Count, textures, s.rng); err != nil {
		return fmt.Errorf("spawn particles: %w", err)
	}
	s.textures = textures
	if s.loadCancel != nil {
		s.loadCancel()
	}
	return nil
}

// onButton maps hold control changes onto the session phase.
func (s *Scene) onButton(e EventType) {
	var changed bool
	switch e {
	case EventPress:
		changed = s.ctx.Press()
	case EventRelease:
		changed = s.ctx.Release()
	}
	if !changed {
		return
	}
	s.view.setPressed(e == EventPress)
	if s.store != nil {
		s.store.EmitEvent(PhaseEvent{Type: e, Phase: s.ctx.Phase(), Time: s.ctx.Time, Frame: s.frame})
	}
}

// Update polls the photo batch, processes input, and advances the clock,
// the camera and the formation by one frame.
func (s *Scene) Update() error {
	dt := 1.0 / float64(currentTPS())
	now := time.Now()
	elapsed := dt
	if !s.lastUpdate.IsZero() {
		elapsed = min(now.Sub(s.lastUpdate).Seconds(), maxFrameGap)
	}
	s.lastUpdate = now

	if !s.loadStarted {
		s.StartLoading(context.Background())
	}
	s.pollLoad()

	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInput()
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		s.Screenshot("manual")
	}
	if !ebiten.IsFocused() && s.button.Held() {
		s.button.releaseAll()
	}

	s.camera.update()
	s.view.update(float32(dt))
	s.fps.update(dt)
	s.step(elapsed)

	s.frame++
	if s.updateFunc != nil {
		return s.updateFunc()
	}
	return nil
}

// maxFrameGap caps the wall-clock step after a stall, in seconds.
const maxFrameGap = 0.25

// currentTPS returns the tick rate, treating SyncWithFPS as the default.
func currentTPS() int {
	if tps := ebiten.TPS(); tps > 0 {
		return tps
	}
	return ebiten.DefaultTPS
}

// step advances the clock then the formation. elapsed is the wall time since
// the previous frame and only matters for the wallclock mode. Nothing moves
// before the particles exist.
func (s *Scene) step(elapsed float64) {
	if s.formation.Len() == 0 {
		return
	}
	if s.cfg.Clock.Mode == ClockWallclock {
		s.ctx.AdvanceScaled(elapsed, currentTPS())
	} else {
		s.ctx.Advance()
	}
	s.formation.Step(s.ctx)
	for _, fn := range s.stepFuncs {
		fn(s.ctx)
	}
}

// Draw renders the formation back to front, then the hold control and
// overlays.
func (s *Scene) Draw(screen *ebiten.Image) {
	screen.Fill(s.cfg.Window.ClearColor.toRGBA())

	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.draw.build(s.formation, s.camera)

	if s.debug {
		stats.buildTime = time.Since(t0)
		stats.spriteCount = len(s.draw.commands)
		stats.particleCount = s.formation.Len()
		t0 = time.Now()
	}

	s.draw.submit(screen, s.cfg.Fog.Color)

	if s.debug {
		stats.submitTime = time.Since(t0)
		s.debugLog(stats)
	}

	s.view.draw(screen, s.button.Bounds)
	if s.ShowFPS {
		s.fps.draw(screen)
	}
	s.flushScreenshots(screen)
}

// Layout tracks the window size, switches between the landscape and
// portrait layout, and keeps the hold control anchored.
func (s *Scene) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != s.width || outsideHeight != s.height {
		s.resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func (s *Scene) resize(w, h int) {
	s.width, s.height = w, h
	s.camera.SetViewport(Rect{Width: float64(w), Height: float64(h)})
	s.button.Bounds = buttonBounds(s.cfg.Button, w, h)
	portrait := w < h
	if s.camera.SetLayout(portrait) {
		s.formation.SetBaseSize(s.cfg.Particles.SizeFor(portrait))
	}
}

// Run opens a window sized by cfg.Window and runs the scene until the
// window closes or the update callback returns an error.
func Run(s *Scene) error {
	w := s.cfg.Window
	ebiten.SetWindowTitle(w.Title)
	ebiten.SetWindowSize(w.Width, w.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	defer s.Close()
	return ebiten.RunGame(s)
}
