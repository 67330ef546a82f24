package ecs

import (
	"github.com/phanxgames/bough"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// TreeEventType is the Donburi event type for bough tree events. Subscribe
// to it in your ECS systems to receive hover, graft and rebuild events.
var TreeEventType = events.NewEventType[bough.TreeEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// published to TreeEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) bough.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event bough.TreeEvent) {
	TreeEventType.Publish(s.world, event)
}
