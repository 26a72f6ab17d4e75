// Package scene owns the cards, the camera and the render loop.
//
// A [Scene] is created once the card data is known. It scatters the cards
// at random, precomputes a target set for every layout mode from the card
// count, and immediately starts a transition to [layout.Table]. From then on
// a front end calls [Scene.Tick] once per frame:
//
//	sc := scene.New(cards, scene.WithRenderer(r))
//	for range ticker.C {
//		sc.Tick()
//	}
//
// Each tick advances the transition engine, applies the orbit controls'
// inertia and draws a [Frame]. Drawing always begins by turning every card
// to face the camera, so layout orientations never reach the renderer.
// User input (mode switches, rotate/pan/zoom, resize) goes through the
// Scene's methods, which are safe to call from another goroutine.
package scene
