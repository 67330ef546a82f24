// Package bough draws a procedurally generated, recursively branching 3D
// tree with [Ebitengine] and lets the user edit it.
//
// A tree is built from two parameters, depth and branch count. Every branch
// carries a tapered segment colored by its depth and owns branchCount
// children, spread evenly around and along it and shrunk by [ShrinkFactor].
// The tree lives in a [Tree] arena addressed by [NodeID].
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene, err := bough.NewScene(bough.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	bough.Run(scene, bough.DefaultConfig().RunConfig())
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.Draw] directly.
//
// # Editing
//
// In edit mode the pointer picks the nearest branch under the cursor and
// highlights it; a press grafts a new subtree onto it, one level smaller
// than the target. Leaves cannot be grafted onto. Outside edit mode a drag
// orbits the camera. Spin turns every branch a little about its own axis
// each frame.
//
// Scene events can be bridged into a [Donburi] world with the adapter in
// bough/ecs. Camera and grow animations use [gween].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package bough
