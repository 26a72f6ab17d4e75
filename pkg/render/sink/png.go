package sink

import (
	"github.com/matzehuels/cardstage/pkg/render"
	"github.com/matzehuels/cardstage/pkg/scene"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 1).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG renders the frame as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(fr scene.Frame, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	svg := RenderSVG(fr, r.svgOpts...)
	return render.ToPNG(svg, r.scale)
}

// RenderPDF renders the frame as PDF via SVG conversion.
func RenderPDF(fr scene.Frame, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(RenderSVG(fr, opts...))
}
