package ecs

import (
	"testing"

	"github.com/phanxgames/bough"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	var sink bough.EventSink = NewDonburiSink(world)
	require.NotNil(t, sink)
}

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []bough.TreeEvent
	TreeEventType.Subscribe(world, func(w donburi.World, e bough.TreeEvent) {
		received = append(received, e)
	})

	sink.EmitEvent(bough.TreeEvent{Type: bough.EventHover, Node: 42, Depth: 3})
	sink.EmitEvent(bough.TreeEvent{Type: bough.EventGraft, Node: 43, Parent: 42, Slot: 2})

	// Events are queued until processed.
	assert.Empty(t, received)
	TreeEventType.ProcessEvents(world)

	require.Len(t, received, 2)
	assert.Equal(t, bough.EventHover, received[0].Type)
	assert.Equal(t, bough.NodeID(42), received[0].Node)
	assert.Equal(t, bough.EventGraft, received[1].Type)
	assert.Equal(t, bough.NodeID(42), received[1].Parent)
	assert.Equal(t, 2, received[1].Slot)
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	TreeEventType.Subscribe(world, func(w donburi.World, e bough.TreeEvent) { count1++ })
	TreeEventType.Subscribe(world, func(w donburi.World, e bough.TreeEvent) { count2++ })

	sink.EmitEvent(bough.TreeEvent{Type: bough.EventRebuild})
	events.ProcessAllEvents(world)

	assert.Equal(t, 1, count1)
	assert.Equal(t, 1, count2)
}

func TestDonburiSink_SceneEvents(t *testing.T) {
	world := donburi.NewWorld()
	cfg := bough.DefaultConfig()
	cfg.Depth, cfg.BranchCount = 3, 2
	cfg.ShowHelpers = false
	cfg.GrowSeconds = 0
	scene, err := bough.NewScene(cfg)
	require.NoError(t, err)
	scene.SetEventSink(NewDonburiSink(world))

	var received []bough.TreeEvent
	TreeEventType.Subscribe(world, func(w donburi.World, e bough.TreeEvent) {
		received = append(received, e)
	})

	require.NoError(t, scene.SetParams(2, 2))
	child, ok := scene.Graft(scene.Root(), bough.GraftOptions{Slot: 1})
	require.True(t, ok)
	TreeEventType.ProcessEvents(world)

	require.Len(t, received, 2)
	assert.Equal(t, bough.EventRebuild, received[0].Type)
	assert.Equal(t, 3, received[0].NodeCount)
	assert.Equal(t, bough.EventGraft, received[1].Type)
	assert.Equal(t, child, received[1].Node)
	assert.Equal(t, scene.Root(), received[1].Parent)
	assert.Equal(t, 4, received[1].NodeCount)
}
