package photoheart

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
//
// Actions: "press" and "release" act on the hold control (at X/Y when
// given, else its center); "hold" presses for Frames frames and releases;
// "wait" idles Frames frames; "waitLoaded" idles until the particles exist;
// "screenshot" captures a PNG named after Label.
type testStep struct {
	Action string   `json:"action"`
	Label  string   `json:"label,omitempty"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Frames int      `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

var knownActions = map[string]bool{
	"press": true, "release": true, "hold": true,
	"wait": true, "waitLoaded": true, "screenshot": true,
}

// TestRunner sequences injected hold-control input and screenshots across
// frames for automated visual testing. Attach to a Scene via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool

	// A scripted press stays down until its release step.
	holding      bool
	holdX, holdY float64
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Scene via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the scene. The runner's step method
// is called from Scene.Update before processInput each frame.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// point returns the step's coordinates, defaulting to the button center.
func (st testStep) point(s *Scene) (float64, float64) {
	x, y := s.button.Bounds.Center()
	if st.X != nil {
		x = *st.X
	}
	if st.Y != nil {
		y = *st.Y
	}
	return x, y
}

// step advances the test runner by one frame. Called from Scene.Update.
// While a scripted press is down, it queues a move at the press point for
// every frame that has no other injected input, so real mouse state never
// releases it.
func (r *TestRunner) step(s *Scene) {
	r.advance(s)
	if r.holding && !r.done && len(s.injectQueue) == 0 {
		s.InjectMove(r.holdX, r.holdY)
	}
}

func (r *TestRunner) advance(s *Scene) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	if st.Action == "waitLoaded" && !s.Loaded() {
		return
	}
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "press":
		r.holdX, r.holdY = st.point(s)
		r.holding = true
		s.InjectPress(r.holdX, r.holdY)
	case "release":
		r.holding = false
		s.InjectRelease(st.point(s))
	case "hold":
		r.holding = false
		s.InjectHold(st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
