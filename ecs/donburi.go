package ecs

import (
	"github.com/phanxgames/photoheart"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// PhaseEventType is the Donburi event type for photoheart phase changes.
var PhaseEventType = events.NewEventType[photoheart.PhaseEvent]()

// Session summarizes the interaction so far.
type Session struct {
	Phase photoheart.Phase
	// Presses counts transitions into the expanding phase.
	Presses int
	// HeldTime is the formation time spent expanding, up to the last release.
	HeldTime  float64
	pressedAt float64
}

// SessionComponent holds the Session on the store's entity.
var SessionComponent = donburi.NewComponentType[Session]()

type donburiStore struct {
	world  donburi.World
	entity donburi.Entity
}

// NewDonburiStore creates an EventStore backed by a Donburi world. Phase
// events are published to PhaseEventType and can be consumed with
// events.Subscribe and ProcessEvents; the Session component is updated
// immediately.
func NewDonburiStore(world donburi.World) photoheart.EventStore {
	return &donburiStore{
		world:  world,
		entity: world.Create(SessionComponent),
	}
}

func (s *donburiStore) EmitEvent(event photoheart.PhaseEvent) {
	if entry := s.world.Entry(s.entity); entry.Valid() {
		sess := SessionComponent.Get(entry)
		switch event.Type {
		case photoheart.EventPress:
			sess.Presses++
			sess.pressedAt = event.Time
		case photoheart.EventRelease:
			sess.HeldTime += event.Time - sess.pressedAt
		}
		sess.Phase = event.Phase
	}
	PhaseEventType.Publish(s.world, event)
}

// SessionOf returns the first Session in world, or false if there is none.
func SessionOf(world donburi.World) (Session, bool) {
	entry, ok := SessionComponent.First(world)
	if !ok {
		return Session{}, false
	}
	return *SessionComponent.Get(entry), true
}
