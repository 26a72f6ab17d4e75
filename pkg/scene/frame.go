package scene

import (
	"time"

	"github.com/matzehuels/cardstage/pkg/card"
	"github.com/matzehuels/cardstage/pkg/geom"
	"github.com/matzehuels/cardstage/pkg/layout"
)

// Item is one card placed in the scene.
type Item struct {
	Index       int       `json:"index"`
	Card        card.Card `json:"card"`
	Position    geom.Vec3 `json:"position"`
	Orientation geom.Quat `json:"orientation"`
}

// Frame is an immutable snapshot handed to a Renderer.
type Frame struct {
	Seq       uint64      `json:"seq"`
	Time      time.Time   `json:"time"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Camera    Camera      `json:"camera"`
	Mode      layout.Mode `json:"mode"`
	Animating bool        `json:"animating"`
	Items     []Item      `json:"items"`
}

// Renderer draws frames.
type Renderer interface {
	Render(Frame) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(Frame) error

// Render calls f(fr).
func (f RendererFunc) Render(fr Frame) error { return f(fr) }

type discardRenderer struct{}

func (discardRenderer) Render(Frame) error { return nil }

// Recorder keeps the most recent frame and counts renders.
type Recorder struct {
	Last  Frame
	Count int
}

// Render stores fr.
func (r *Recorder) Render(fr Frame) error {
	r.Last = fr
	r.Count++
	return nil
}
