// Package sound plays a soft lub-dub on every peak of the heart's pulse.
//
// Attach a Beeper to a scene with Scene.OnStep(beeper.Observe).
package sound

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/phanxgames/photoheart"
)

// BeatDetector reports when the pulse sin(freq·t) passes a maximum.
type BeatDetector struct {
	Freq float64

	last   int
	primed bool
}

// NewBeatDetector returns a detector for a pulse of angular frequency freq.
func NewBeatDetector(freq float64) *BeatDetector {
	return &BeatDetector{Freq: freq}
}

// peakIndex numbers the maxima of sin(freq·t); it increments as t passes
// each one.
func (d *BeatDetector) peakIndex(t float64) int {
	return int(math.Floor((d.Freq*t - math.Pi/2) / (2 * math.Pi)))
}

// Observe returns true when a peak lies between the previous observed time
// and t. The first call only primes the detector.
func (d *BeatDetector) Observe(t float64) bool {
	k := d.peakIndex(t)
	if !d.primed {
		d.primed = true
		d.last = k
		return false
	}
	if k > d.last {
		d.last = k
		return true
	}
	return false
}

// Beeper plays a heartbeat through the system speaker.
type Beeper struct {
	cfg      photoheart.AudioConfig
	rate     beep.SampleRate
	detector *BeatDetector
	mixer    *beep.Mixer

	mu     sync.Mutex
	closed bool
	beats  int
}

// NewBeeper initializes the speaker. freq is the pulse frequency of the
// heart shape (Shape.BeatFreq).
func NewBeeper(cfg photoheart.AudioConfig, freq float64) (*Beeper, error) {
	rate := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("sound: init speaker: %w", err)
	}
	b := &Beeper{
		cfg:      cfg,
		rate:     rate,
		detector: NewBeatDetector(freq),
		mixer:    &beep.Mixer{},
	}
	speaker.Play(b.mixer)
	return b, nil
}

// Observe is a step callback: it plays one heartbeat per pulse peak.
func (b *Beeper) Observe(ctx *photoheart.Context) {
	if !b.detector.Observe(ctx.Time) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	s, err := heartbeat(b.rate, b.cfg.Frequency, b.cfg.Volume)
	if err != nil {
		return
	}
	b.beats++
	speaker.Lock()
	b.mixer.Add(s)
	speaker.Unlock()
}

// Beats returns the number of heartbeats played.
func (b *Beeper) Beats() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.beats
}

// Close silences the speaker. The beeper ignores later peaks.
func (b *Beeper) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
}

// heartbeat builds a lub-dub: a short low tone, a gap, then a quieter,
// slightly higher one.
func heartbeat(rate beep.SampleRate, freq, volume float64) (beep.Streamer, error) {
	lub, err := tone(rate, freq, 90*time.Millisecond, volume)
	if err != nil {
		return nil, err
	}
	dub, err := tone(rate, freq*1.25, 70*time.Millisecond, volume-0.4)
	if err != nil {
		return nil, err
	}
	return beep.Seq(lub, beep.Silence(rate.N(110*time.Millisecond)), dub), nil
}

func tone(rate beep.SampleRate, freq float64, d time.Duration, volume float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, fmt.Errorf("sound: tone %vHz: %w", freq, err)
	}
	return &effects.Gain{Streamer: beep.Take(rate.N(d), sine), Gain: volume}, nil
}
