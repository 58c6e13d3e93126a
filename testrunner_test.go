package photoheart

import (
	"strings"
	"testing"
)

func newRunnerScene(t *testing.T) *Scene {
	t.Helper()
	s := NewScene(DefaultConfig())
	s.resize(800, 600)
	return s
}

func TestLoadTestScript(t *testing.T) {
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "waitLoaded"},
		{"action": "hold", "frames": 30},
		{"action": "screenshot", "label": "expanded"}
	]}`))
	if err != nil {
		t.Fatalf("LoadTestScript: %v", err)
	}
	if len(runner.steps) != 3 {
		t.Errorf("steps = %d, want 3", len(runner.steps))
	}
}

func TestLoadTestScriptErrors(t *testing.T) {
	tests := []struct {
		name, data, want string
	}{
		{"invalid json", `{`, "parse test script"},
		{"no steps", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "click"}]}`, `unknown action "click"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTestScript([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestRunnerHoldTogglesPhase(t *testing.T) {
	s := newRunnerScene(t)
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "hold", "frames": 3}]}`))
	if err != nil {
		t.Fatal(err)
	}

	runner.step(s)
	if len(s.injectQueue) != 4 {
		t.Fatalf("queued %d events, want press + 2 moves + release", len(s.injectQueue))
	}
	s.processInjectedInput()
	if !s.Context().Expanding() {
		t.Error("hold should expand after the press frame")
	}
	s.processInjectedInput()
	s.processInjectedInput()
	if !s.Context().Expanding() {
		t.Error("still held during the move frames")
	}
	s.processInjectedInput()
	if s.Context().Expanding() {
		t.Error("release frame should return to resting")
	}

	runner.step(s)
	if !runner.Done() {
		t.Error("runner should be done once the queue drained")
	}
}

func TestRunnerPressAt(t *testing.T) {
	s := newRunnerScene(t)
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "press", "x": 5, "y": 5},
		{"action": "press"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	runner.step(s)
	s.processInjectedInput()
	if s.Context().Expanding() {
		t.Error("press outside the button should not expand")
	}
	s.InjectRelease(5, 5)
	s.processInjectedInput()

	runner.step(s)
	s.processInjectedInput()
	if !s.Context().Expanding() {
		t.Error("press at the button center should expand")
	}
}

func TestRunnerPressStaysHeldUntilRelease(t *testing.T) {
	s := newRunnerScene(t)
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "press"},
		{"action": "wait", "frames": 10},
		{"action": "release"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	frame := func() {
		runner.step(s)
		s.processInput()
	}
	frame()
	if !s.Context().Expanding() {
		t.Fatal("press frame should expand")
	}
	for i := 0; i < 10; i++ {
		frame()
		if !s.Context().Expanding() {
			t.Fatalf("released during wait at frame %d", i)
		}
	}
	frame()
	if s.Context().Expanding() {
		t.Error("release step should return to resting")
	}
	if s.button.Held() {
		t.Error("button still held after release step")
	}
	frame()
	if !runner.Done() {
		t.Error("runner should be done after the release step")
	}
	if len(s.injectQueue) != 0 {
		t.Errorf("queue = %d after release, want 0", len(s.injectQueue))
	}
}

func TestRunnerStepWait(t *testing.T) {
	s := newRunnerScene(t)
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "screenshot", "label": "done"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		runner.step(s)
		if runner.Done() {
			t.Fatalf("done too early at frame %d", i)
		}
	}
	runner.step(s)
	if !runner.Done() {
		t.Error("runner should be done after screenshot step")
	}
	if len(s.screenshotQueue) != 1 || s.screenshotQueue[0] != "done" {
		t.Errorf("screenshots = %v, want [done]", s.screenshotQueue)
	}
}

func TestRunnerWaitLoaded(t *testing.T) {
	s := newRunnerScene(t)
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "waitLoaded"},
		{"action": "screenshot", "label": "loaded"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	runner.step(s)
	runner.step(s)
	if runner.cursor != 0 {
		t.Fatalf("cursor = %d, want 0 before load", runner.cursor)
	}
	if err := s.SetTextures(FallbackTextures(2, 8)); err != nil {
		t.Fatal(err)
	}
	runner.step(s)
	runner.step(s)
	if !runner.Done() || len(s.screenshotQueue) != 1 {
		t.Errorf("done = %v, screenshots = %v", runner.Done(), s.screenshotQueue)
	}
}
