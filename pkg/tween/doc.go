// Package tween animates card positions between layouts.
//
// An [Engine] owns a set of per-item [Animation] records plus one [Driver].
// Each animation interpolates a single item's position from where it was when
// the transition began to its layout target, eased with [ExponentialInOut]
// over a duration drawn uniformly from [base, 2·base). The driver carries no
// payload; it simply lives for 2·base and invokes the repaint callback on
// every [Engine.Update] so the scene keeps drawing for as long as any item
// might still be moving.
//
// Starting a transition discards whatever was in flight. Items keep the
// position they had reached at that moment and head straight for the new
// target; nothing is queued.
//
// Time comes from a [Clock]. Use [SystemClock] for real-time front ends and
// [ManualClock] for headless simulation and tests:
//
//	clk := tween.NewManualClock(time.Unix(0, 0))
//	eng := tween.New(clk, tween.WithSeed(7))
//	eng.TransitionTo(positions, targets, 2*time.Second)
//	for eng.Running() {
//		clk.Advance(time.Second / 60)
//		eng.Update(positions)
//	}
package tween
