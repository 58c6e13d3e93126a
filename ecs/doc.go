// Package ecs provides ECS adapters for photoheart's phase events.
//
// The primary adapter is [NewDonburiStore], which bridges hold-control phase
// changes into a [Donburi] world as typed events and keeps a per-world
// [Session] component up to date. Subscribe to [PhaseEventType] in your ECS
// systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
