package photoheart

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full tuning set for a Scene. Load it from YAML with
// LoadConfig or start from DefaultConfig.
//
// Config file example:
//
//	particles:
//	  count: 300
//	photos:
//	  dir: assets/photos
//	  mask: circle
//	rotation:
//	  spinPerFrame: 0.004
//	  tilt: true
type Config struct {
	Window    WindowConfig   `yaml:"window"`
	Particles ParticleConfig `yaml:"particles"`
	Shape     Shape          `yaml:"shape"`
	Motion    Motion         `yaml:"motion"`
	Rotation  Rotation       `yaml:"rotation"`
	Camera    CameraConfig   `yaml:"camera"`
	Fog       FogConfig      `yaml:"fog"`
	Clock     ClockConfig    `yaml:"clock"`
	Photos    PhotoConfig    `yaml:"photos"`
	Button    ButtonConfig   `yaml:"button"`
	Audio     AudioConfig    `yaml:"audio"`

	// Debug logs per-frame timing to stderr.
	Debug bool `yaml:"debug"`
	// ShowFPS draws the FPS/TPS overlay.
	ShowFPS bool `yaml:"showFPS"`
	// ScreenshotDir receives PNGs from Scene.Screenshot.
	ScreenshotDir string `yaml:"screenshotDir"`
}

// WindowConfig describes the initial window.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	ClearColor Color  `yaml:"clearColor"`
}

// ParticleConfig sets the particle count and sprite sizes.
type ParticleConfig struct {
	Count int `yaml:"count"`
	// Size is the sprite edge length in landscape windows.
	Size float64 `yaml:"size"`
	// PortraitSize is used when the window is taller than wide.
	PortraitSize float64 `yaml:"portraitSize"`
	// SpawnRadius is the radius range of the initial sphere shell.
	SpawnRadius Range `yaml:"spawnRadius"`
}

// CameraConfig sets the perspective projection.
type CameraConfig struct {
	FOV              float64 `yaml:"fov"` // vertical, degrees
	Near             float64 `yaml:"near"`
	Far              float64 `yaml:"far"`
	Distance         float64 `yaml:"distance"`
	PortraitDistance float64 `yaml:"portraitDistance"`
	// SpringFrequency and SpringDamping shape the distance change on a
	// layout switch.
	SpringFrequency float64 `yaml:"springFrequency"`
	SpringDamping   float64 `yaml:"springDamping"`
}

// FogConfig is exponential-squared depth fog.
type FogConfig struct {
	Color   Color   `yaml:"color"`
	Density float64 `yaml:"density"`
}

// ClockMode selects how the formation clock advances.
type ClockMode string

const (
	ClockFixed     ClockMode = "fixed"     // one TimeStep per frame
	ClockWallclock ClockMode = "wallclock" // scaled by elapsed ticks
)

// ClockConfig sets the formation clock.
type ClockConfig struct {
	TimeStep float64   `yaml:"timeStep"`
	Mode     ClockMode `yaml:"mode"`
}

// PhotoConfig lists the photos and how they are prepared.
type PhotoConfig struct {
	// Dir is prefixed to relative Paths.
	Dir   string   `yaml:"dir"`
	Paths []string `yaml:"paths"`
	// Mask is "heart", "circle" or "none".
	Mask        MaskShape     `yaml:"mask"`
	TextureSize int           `yaml:"textureSize"`
	LoadTimeout time.Duration `yaml:"loadTimeout"`
	Concurrency int           `yaml:"concurrency"`
}

// ButtonConfig places the hold control, centered at the bottom of the window.
type ButtonConfig struct {
	Label        string  `yaml:"label"`
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	Margin       float64 `yaml:"margin"`
	Color        Color   `yaml:"color"`
	PressedColor Color   `yaml:"pressedColor"`
}

// AudioConfig sets the optional heartbeat sound.
type AudioConfig struct {
	Enabled    bool `yaml:"enabled"`
	SampleRate int  `yaml:"sampleRate"`
	// Frequency is the pitch of the first thump in Hz; the second is lower.
	Frequency float64 `yaml:"frequency"`
	// Volume is the gain added to the tone, from -1 (silent) upward.
	Volume float64 `yaml:"volume"`
}

// DefaultConfig returns the reference tuning: 150 particles, sizes 6/15,
// camera 45/85, fog 0.001 and five photos in assets/photos.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:      "Photo Heart",
			Width:      960,
			Height:     720,
			ClearColor: Color{0, 0, 0, 1},
		},
		Particles: ParticleConfig{
			Count:        150,
			Size:         6,
			PortraitSize: 15,
			SpawnRadius:  Range{Min: 10, Max: 30},
		},
		Shape:    DefaultShape(),
		Motion:   DefaultMotion(),
		Rotation: DefaultRotation(),
		Camera: CameraConfig{
			FOV:              75,
			Near:             0.1,
			Far:              1000,
			Distance:         45,
			PortraitDistance: 85,
			SpringFrequency:  4,
			SpringDamping:    1,
		},
		Fog: FogConfig{
			Color:   Color{0, 0, 0, 1},
			Density: 0.001,
		},
		Clock: ClockConfig{
			TimeStep: 0.005,
			Mode:     ClockFixed,
		},
		Photos: PhotoConfig{
			Dir: "assets/photos",
			Paths: []string{
				"photo1.jpg",
				"photo2.jpg",
				"photo3.jpg",
				"photo4.jpg",
				"photo5.jpg",
			},
			Mask:        MaskHeart,
			TextureSize: 256,
			LoadTimeout: 10 * time.Second,
			Concurrency: 4,
		},
		Button: ButtonConfig{
			Label:        "HOLD",
			Width:        180,
			Height:       56,
			Margin:       40,
			Color:        Color{R: 1, G: 0.2, B: 0.45, A: 0.85},
			PressedColor: Color{R: 1, G: 0.55, B: 0.7, A: 1},
		},
		Audio: AudioConfig{
			SampleRate: 44100,
			Frequency:  70,
			Volume:     -0.3,
		},
		ScreenshotDir: "screenshots",
	}
}

// LoadConfig reads a YAML file over DefaultConfig, so a file only needs the
// keys it changes.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate reports every setting that would leave the formation undefined.
func (c Config) Validate() error {
	var errs []error
	if c.Particles.Count <= 0 {
		errs = append(errs, fmt.Errorf("particles.count must be positive, got %d", c.Particles.Count))
	}
	if c.Particles.Size <= 0 || c.Particles.PortraitSize <= 0 {
		errs = append(errs, errors.New("particles.size and particles.portraitSize must be positive"))
	}
	if c.Particles.SpawnRadius.Min < 0 || c.Particles.SpawnRadius.Min > c.Particles.SpawnRadius.Max {
		errs = append(errs, fmt.Errorf("particles.spawnRadius invalid: min %v, max %v",
			c.Particles.SpawnRadius.Min, c.Particles.SpawnRadius.Max))
	}
	if !inUnitInterval(c.Motion.RestingSpeed) || !inUnitInterval(c.Motion.ExpandingSpeed) {
		errs = append(errs, errors.New("motion speeds must be in (0, 1]"))
	}
	if c.Rotation.Tilt && !inUnitInterval(c.Rotation.TiltSmoothing) {
		errs = append(errs, errors.New("rotation.tiltSmoothing must be in (0, 1]"))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov must be in (0, 180), got %v", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, errors.New("camera.near must be positive and less than camera.far"))
	}
	if c.Camera.Distance <= 0 || c.Camera.PortraitDistance <= 0 {
		errs = append(errs, errors.New("camera distances must be positive"))
	}
	if c.Fog.Density < 0 {
		errs = append(errs, errors.New("fog.density must not be negative"))
	}
	if c.Clock.TimeStep < 0 {
		errs = append(errs, errors.New("clock.timeStep must not be negative"))
	}
	if c.Clock.Mode != ClockFixed && c.Clock.Mode != ClockWallclock {
		errs = append(errs, fmt.Errorf("clock.mode %q unknown", c.Clock.Mode))
	}
	if c.Photos.TextureSize <= 0 {
		errs = append(errs, errors.New("photos.textureSize must be positive"))
	}
	if c.Audio.Enabled {
		if c.Audio.SampleRate <= 0 {
			errs = append(errs, errors.New("audio.sampleRate must be positive"))
		} else if c.Audio.Frequency <= 0 || c.Audio.Frequency >= float64(c.Audio.SampleRate)/2 {
			errs = append(errs, fmt.Errorf("audio.frequency must be in (0, %d)", c.Audio.SampleRate/2))
		}
		if c.Audio.Volume < -1 {
			errs = append(errs, errors.New("audio.volume must be at least -1"))
		}
	}
	return errors.Join(errs...)
}

// SizeFor returns the sprite size for the given window orientation.
func (c ParticleConfig) SizeFor(portrait bool) float64 {
	if portrait {
		return c.PortraitSize
	}
	return c.Size
}

// DistanceFor returns the camera distance for the given window orientation.
func (c CameraConfig) DistanceFor(portrait bool) float64 {
	if portrait {
		return c.PortraitDistance
	}
	return c.Distance
}

// ResolvedPaths returns Paths with Dir prefixed to relative file entries.
// URLs and absolute paths pass through unchanged.
func (c PhotoConfig) ResolvedPaths() []string {
	out := make([]string, len(c.Paths))
	for i, p := range c.Paths {
		switch {
		case isURL(p), strings.HasPrefix(p, "/"), c.Dir == "":
			out[i] = p
		default:
			out[i] = strings.TrimSuffix(c.Dir, "/") + "/" + p
		}
	}
	return out
}

// UnmarshalYAML accepts the mask name.
func (m *MaskShape) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseMask(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMask converts "heart", "circle" or "none" to a MaskShape.
func ParseMask(s string) (MaskShape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "heart", "":
		return MaskHeart, nil
	case "circle":
		return MaskCircle, nil
	case "none":
		return MaskNone, nil
	default:
		return MaskHeart, fmt.Errorf("unknown mask %q", s)
	}
}

func inUnitInterval(v float64) bool {
	return v > 0 && v <= 1
}

func isURL(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}
