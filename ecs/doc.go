// Package ecs bridges bough scene events into a [Donburi] world.
//
// [NewDonburiSink] publishes every hover, unhover, graft and rebuild event
// as a typed Donburi event. Subscribe to [TreeEventType] in your ECS
// systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	scene.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
