package photoheart

// syntheticPointerEvent represents a single injected pointer event in
// screen coordinates, fed through the hold control exactly like the mouse.
type syntheticPointerEvent struct {
	screenX, screenY float64
	pressed          bool
}

// InjectPress queues a pointer press at the given screen coordinates. The
// event is consumed on the next frame's processInput call.
func (s *Scene) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{screenX: x, screenY: y, pressed: true})
}

// InjectMove queues a pointer move with the button held down.
func (s *Scene) InjectMove(x, y float64) {
	s.InjectPress(x, y)
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (s *Scene) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{screenX: x, screenY: y})
}

// InjectHold queues a press on the hold control, keeps it down for frames
// frames, then releases it. Minimum frames is 1.
func (s *Scene) InjectHold(frames int) {
	if frames < 1 {
		frames = 1
	}
	x, y := s.button.Bounds.Center()
	s.InjectPress(x, y)
	for i := 1; i < frames; i++ {
		s.InjectMove(x, y)
	}
	s.InjectRelease(x, y)
}

// processInjectedInput pops one event from the inject queue and feeds it to
// the hold control as pointer 0. Returns true if an event was consumed (real
// mouse input should be skipped).
func (s *Scene) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	s.button.processPointer(0, evt.screenX, evt.screenY, evt.pressed)
	return true
}
