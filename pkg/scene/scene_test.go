package scene

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/matzehuels/cardstage/pkg/card"
	"github.com/matzehuels/cardstage/pkg/errors"
	"github.com/matzehuels/cardstage/pkg/geom"
	"github.com/matzehuels/cardstage/pkg/layout"
	"github.com/matzehuels/cardstage/pkg/tween"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testCards(n int) []card.Card {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("Person %d", i), "", "30", "NZ", "Sailing", "$120,000"}
	}
	return card.FromRows(rows)
}

func newTestScene(n int, opts ...Option) (*Scene, *tween.ManualClock, *Recorder) {
	clk := tween.NewManualClock(epoch)
	rec := &Recorder{}
	opts = append([]Option{WithClock(clk), WithSeed(11), WithRenderer(rec)}, opts...)
	return New(testCards(n), opts...), clk, rec
}

func TestNewScattersItems(t *testing.T) {
	sc, _, _ := newTestScene(40)
	if sc.Len() != 40 {
		t.Fatalf("Len() = %d, want 40", sc.Len())
	}
	for _, it := range sc.Items() {
		for _, v := range []float64{it.Position.X, it.Position.Y, it.Position.Z} {
			if v < -ScatterExtent || v >= ScatterExtent {
				t.Errorf("item %d starts at %v, outside the scatter cube", it.Index, it.Position)
			}
		}
	}
	if sc.Mode() != layout.Table {
		t.Errorf("initial Mode() = %v, want table", sc.Mode())
	}
	if !sc.Animating() {
		t.Error("scene should start animating towards the table")
	}
}

func TestSeedIsReproducible(t *testing.T) {
	a, _, _ := newTestScene(5)
	b, _, _ := newTestScene(5)
	ia, ib := a.Items(), b.Items()
	for i := range ia {
		if ia[i].Position != ib[i].Position {
			t.Errorf("item %d: %v != %v with the same seed", i, ia[i].Position, ib[i].Position)
		}
	}
}

func TestEndToEndTableSphereGrid(t *testing.T) {
	sc, clk, _ := newTestScene(3)

	for _, mode := range []layout.Mode{layout.Table, layout.Sphere, layout.Grid} {
		if err := sc.TransitionTo(mode); err != nil {
			t.Fatalf("TransitionTo(%v) error: %v", mode, err)
		}
		clk.Advance(2 * sc.BaseDuration())
		sc.Tick()

		targets := sc.Targets(mode)
		for i, it := range sc.Items() {
			if !it.Position.ApproxEqual(targets[i].Position, 1e-9) {
				t.Errorf("%v: item %d at %v, want %v", mode, i, it.Position, targets[i].Position)
			}
		}
		if sc.Animating() {
			t.Errorf("%v: still animating after the full duration", mode)
		}
	}
}

func TestSettle(t *testing.T) {
	sc, clk, rec := newTestScene(10)
	frames, err := sc.Settle(context.Background(), clk, time.Second/60)
	if err != nil {
		t.Fatal(err)
	}
	if frames == 0 {
		t.Fatal("Settle drew no frames")
	}
	if rec.Count < frames {
		t.Errorf("renders = %d, want at least one per frame (%d)", rec.Count, frames)
	}
	if rec.Last.Animating {
		t.Error("last frame should not be animating")
	}
	want := sc.Targets(layout.Table)
	for i, it := range rec.Last.Items {
		if !it.Position.ApproxEqual(want[i].Position, 1e-9) {
			t.Errorf("item %d = %v, want %v", i, it.Position, want[i].Position)
		}
	}
}

func settle(t *testing.T, sc *Scene, clk *tween.ManualClock, frame time.Duration) {
	t.Helper()
	if _, err := sc.Settle(context.Background(), clk, frame); err != nil {
		t.Fatal(err)
	}
}

func TestSettleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	drawn := 0
	stopAfter := func(Frame) error {
		if drawn++; drawn == 10 {
			cancel()
		}
		return nil
	}
	clk := tween.NewManualClock(epoch)
	sc := New(testCards(10), WithClock(clk), WithSeed(11), WithRenderer(RendererFunc(stopAfter)))

	frames, err := sc.Settle(ctx, clk, time.Second/60)
	if err != context.Canceled {
		t.Fatalf("Settle error = %v, want context.Canceled", err)
	}
	if frames > settleCheckEvery {
		t.Errorf("Settle drew %d frames after cancel, want at most %d", frames, settleCheckEvery)
	}
	if !sc.Animating() {
		t.Error("cancelled scene should still be animating")
	}
}

func TestPyramidOverflowStaysPut(t *testing.T) {
	sc, clk, _ := newTestScene(185)
	settle(t, sc, clk, 100*time.Millisecond)
	before := sc.Items()

	if err := sc.TransitionTo(layout.Pyramid); err != nil {
		t.Fatal(err)
	}
	settle(t, sc, clk, 100*time.Millisecond)
	after := sc.Items()

	for i := layout.PyramidCapacity; i < len(after); i++ {
		if after[i].Position != before[i].Position {
			t.Errorf("item %d beyond capacity moved from %v to %v", i, before[i].Position, after[i].Position)
		}
	}
	targets := sc.Targets(layout.Pyramid)
	if !after[0].Position.ApproxEqual(targets[0].Position, 1e-9) {
		t.Errorf("item 0 = %v, want %v", after[0].Position, targets[0].Position)
	}
}

func TestRenderBillboards(t *testing.T) {
	sc, _, rec := newTestScene(6)
	sc.Rotate(200, 40)
	sc.Render()

	cam := rec.Last.Camera
	for _, it := range rec.Last.Items {
		fwd := it.Orientation.Rotate(geom.UnitZ)
		want := cam.Position.Sub(it.Position).Normalize()
		if !fwd.ApproxEqual(want, 1e-3) {
			t.Errorf("item %d faces %v, want %v", it.Index, fwd, want)
		}
	}
}

func TestTickAlwaysDraws(t *testing.T) {
	sc, clk, rec := newTestScene(2)
	settle(t, sc, clk, 250*time.Millisecond)

	before := rec.Count
	sc.Tick()
	if rec.Count != before+1 {
		t.Errorf("idle Tick drew %d frames, want 1", rec.Count-before)
	}
}

func TestResizeDrawsOnce(t *testing.T) {
	sc, _, rec := newTestScene(2)
	before := rec.Count
	sc.Resize(1000, 500)
	if rec.Count != before+1 {
		t.Errorf("Resize drew %d frames, want 1", rec.Count-before)
	}
	cam := sc.Camera()
	if cam.Aspect != 2 || rec.Last.Width != 1000 || rec.Last.Height != 500 {
		t.Errorf("camera after resize = %+v", cam)
	}
}

func TestZoomIsClamped(t *testing.T) {
	sc, _, _ := newTestScene(1)

	sc.Zoom(0.01)
	cam := sc.Camera()
	if d := cam.Distance(); math.Abs(d-DefaultMinDistance) > 1e-6 {
		t.Errorf("distance after zoom in = %v, want %v", d, float64(DefaultMinDistance))
	}
	sc.Zoom(1000)
	cam = sc.Camera()
	if d := cam.Distance(); math.Abs(d-DefaultMaxDistance) > 1e-6 {
		t.Errorf("distance after zoom out = %v, want %v", d, float64(DefaultMaxDistance))
	}
}

func TestInvalidMode(t *testing.T) {
	sc, _, _ := newTestScene(1)
	err := sc.TransitionTo(layout.Mode(17))
	if !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Errorf("TransitionTo(17) error = %v, want INVALID_MODE", err)
	}
}

func TestRenderErrorIsNotFatal(t *testing.T) {
	calls := 0
	r := RendererFunc(func(Frame) error {
		calls++
		return fmt.Errorf("disk full")
	})
	clk := tween.NewManualClock(epoch)
	sc := New(testCards(2), WithClock(clk), WithRenderer(r))
	sc.Tick()
	sc.Tick()
	if calls < 2 {
		t.Errorf("renderer called %d times, want at least 2", calls)
	}
}

func TestEmptyScene(t *testing.T) {
	sc, clk, rec := newTestScene(0)
	settle(t, sc, clk, time.Second)
	sc.Tick()
	if len(rec.Last.Items) != 0 {
		t.Errorf("empty scene rendered %d items", len(rec.Last.Items))
	}
}
