package sink

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/cardstage/pkg/geom"
	"github.com/matzehuels/cardstage/pkg/scene"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	indent bool
	cards  bool
}

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// WithJSONCards includes the full card content for every item instead of
// just its name and tier.
func WithJSONCards() JSONOption { return func(r *jsonRenderer) { r.cards = true } }

// FrameJSON is the JSON form of a frame.
type FrameJSON struct {
	Seq       uint64     `json:"seq"`
	Time      time.Time  `json:"time"`
	Mode      string     `json:"mode"`
	Animating bool       `json:"animating"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Camera    CameraJSON `json:"camera"`
	Items     []ItemJSON `json:"items"`
}

// CameraJSON describes the viewpoint.
type CameraJSON struct {
	Position geom.Vec3 `json:"position"`
	Target   geom.Vec3 `json:"target"`
	FOV      float64   `json:"fov"`
}

// ItemJSON is one card in world and screen space.
type ItemJSON struct {
	Index       int               `json:"index"`
	Name        string            `json:"name"`
	Tier        string            `json:"tier"`
	Color       string            `json:"color"`
	Position    geom.Vec3         `json:"position"`
	Orientation geom.Quat         `json:"orientation"`
	Screen      *scene.Projection `json:"screen,omitempty"` // nil when off-screen
	Card        any               `json:"card,omitempty"`
}

// RenderJSON exports the frame.
func RenderJSON(fr scene.Frame, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := BuildFrameJSON(fr, r.cards)
	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

// BuildFrameJSON converts fr without encoding it.
func BuildFrameJSON(fr scene.Frame, withCards bool) FrameJSON {
	out := FrameJSON{
		Seq:       fr.Seq,
		Time:      fr.Time,
		Mode:      fr.Mode.String(),
		Animating: fr.Animating,
		Width:     fr.Width,
		Height:    fr.Height,
		Camera: CameraJSON{
			Position: fr.Camera.Position,
			Target:   fr.Camera.Target,
			FOV:      fr.Camera.FOV,
		},
		Items: make([]ItemJSON, 0, len(fr.Items)),
	}

	for _, p := range project(fr) {
		it := ItemJSON{
			Index:       p.item.Index,
			Name:        p.item.Card.Name,
			Tier:        p.item.Card.Tier.String(),
			Color:       p.item.Card.Color(),
			Position:    p.item.Position,
			Orientation: p.item.Orientation,
		}
		if p.visible {
			proj := p.proj
			it.Screen = &proj
		}
		if withCards {
			it.Card = p.item.Card
		}
		out.Items = append(out.Items, it)
	}
	return out
}
