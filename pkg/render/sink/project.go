package sink

import (
	"cmp"
	"slices"

	"github.com/matzehuels/cardstage/pkg/scene"
)

// Card dimensions in world units.
const (
	CardWidth  = 120
	CardHeight = 160
)

// projected is an item with its viewport projection.
type projected struct {
	item    scene.Item
	proj    scene.Projection
	visible bool
}

// project maps every item through the frame camera.
func project(fr scene.Frame) []projected {
	cam := fr.Camera
	cam.SetSize(fr.Width, fr.Height)

	out := make([]projected, len(fr.Items))
	for i, it := range fr.Items {
		p, ok := cam.Project(it.Position)
		out[i] = projected{item: it, proj: p, visible: ok}
	}
	return out
}

// paintOrder returns the visible items sorted far to near, ties by index.
func paintOrder(fr scene.Frame) []projected {
	all := project(fr)
	vis := slices.DeleteFunc(all, func(p projected) bool { return !p.visible })
	slices.SortStableFunc(vis, func(a, b projected) int {
		if c := cmp.Compare(b.proj.Depth, a.proj.Depth); c != 0 {
			return c
		}
		return cmp.Compare(a.item.Index, b.item.Index)
	})
	return vis
}
