package photoheart

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// maxPointers is the number of tracked pointers: the mouse in slot 0 and up
// to nine touches in slots 1-9.
const maxPointers = 10

// pointerState tracks one pointer across frames.
type pointerState struct {
	pressed bool // raw button/touch state last frame
	engaged bool // press started on the button and has not ended or left
	lastX   float64
	lastY   float64
}

// HoldButton is the press-and-hold control. It is held while any pointer
// that pressed inside Bounds stays down and inside, or while the hold key is
// down. Each change of the held state is reported once to the handler.
type HoldButton struct {
	// Bounds is the screen-space hit area.
	Bounds Rect
	// Key, when not -1, holds the button while pressed.
	Key ebiten.Key

	pointers     [maxPointers]pointerState
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID

	keyDown bool
	held    bool
	handler func(EventType)
}

// NewHoldButton creates a released button over bounds, held by Space.
func NewHoldButton(bounds Rect) *HoldButton {
	return &HoldButton{Bounds: bounds, Key: ebiten.KeySpace}
}

// OnChange sets the function called with EventPress when the button becomes
// held and EventRelease when it is let go.
func (b *HoldButton) OnChange(fn func(EventType)) {
	b.handler = fn
}

// Held reports whether the button is currently held.
func (b *HoldButton) Held() bool {
	return b.held
}

// processPointer runs the hold state machine for one pointer. A press that
// starts outside the button never engages it, even if dragged inside.
func (b *HoldButton) processPointer(pointerID int, x, y float64, pressed bool) {
	ps := &b.pointers[pointerID]
	inside := b.Bounds.Contains(x, y)

	switch {
	case pressed && !ps.pressed:
		ps.engaged = inside
	case !pressed:
		ps.engaged = false
	case ps.engaged && !inside:
		// Pointer left the control while held.
		ps.engaged = false
	}
	ps.pressed = pressed
	ps.lastX, ps.lastY = x, y
	b.sync()
}

// setKey updates the hold key state.
func (b *HoldButton) setKey(down bool) {
	b.keyDown = down
	b.sync()
}

// releaseAll drops every pointer and the key, e.g. when the window loses focus.
func (b *HoldButton) releaseAll() {
	for i := range b.pointers {
		b.pointers[i].pressed = false
		b.pointers[i].engaged = false
	}
	b.keyDown = false
	b.sync()
}

// sync recomputes the held state and fires the handler on a change.
func (b *HoldButton) sync() {
	held := b.keyDown
	for i := range b.pointers {
		if b.pointers[i].engaged {
			held = true
			break
		}
	}
	if held == b.held {
		return
	}
	b.held = held
	if b.handler == nil {
		return
	}
	if held {
		b.handler(EventPress)
	} else {
		b.handler(EventRelease)
	}
}

// processMouse handles mouse input (pointer 0).
func (b *HoldButton) processMouse() {
	mx, my := ebiten.CursorPosition()
	b.processPointer(0, float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}

// processTouches handles touch input (pointers 1-9).
func (b *HoldButton) processTouches() {
	touchIDs := ebiten.AppendTouchIDs(b.prevTouchIDs[:0])
	b.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := b.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		b.processPointer(slot, float64(tx), float64(ty), true)
	}

	// Touch end: release slots whose touch disappeared.
	for i := 1; i < maxPointers; i++ {
		if b.touchUsed[i] && !activeSlots[i] {
			ps := &b.pointers[i]
			b.processPointer(i, ps.lastX, ps.lastY, false)
			b.touchUsed[i] = false
			b.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (b *HoldButton) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if b.touchUsed[i] && b.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !b.touchUsed[i] {
			b.touchUsed[i] = true
			b.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processKey polls the hold key.
func (b *HoldButton) processKey() {
	if b.Key < 0 {
		return
	}
	if down := ebiten.IsKeyPressed(b.Key); down != b.keyDown {
		b.setKey(down)
	}
}

// normalizedPointer maps a screen position to -1..1 on each axis, with
// (0, 0) at the window center and +y pointing down.
func normalizedPointer(x, y float64, w, h int) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	return clampUnit(x/float64(w)*2 - 1), clampUnit(y/float64(h)*2 - 1)
}

// processInput is called from Scene.Update to feed the hold control and the
// tilt target. An injected event replaces real mouse input for that frame.
func (s *Scene) processInput() {
	if !s.processInjectedInput() {
		s.button.processMouse()
	}
	s.button.processTouches()
	s.button.processKey()

	if s.formation.Rotation.Tilt {
		mx, my := ebiten.CursorPosition()
		s.formation.SetTiltTarget(normalizedPointer(float64(mx), float64(my), s.width, s.height))
	}
}
