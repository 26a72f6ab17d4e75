// Package sink provides output format renderers for card frames.
//
// # Overview
//
// A "sink" turns a [scene.Frame] into a final output format:
//
//   - SVG: perspective projection of every card
//   - JSON: positions, orientations and screen projections
//   - PNG and PDF: raster and print output (requires rsvg-convert)
//   - Terminal: a colored character grid for the interactive viewer
//
// # SVG Output
//
// [RenderSVG] projects each card through the frame's camera and paints
// them far to near, so nearer cards cover farther ones. Cards face the
// camera, so each one is an upright rounded rectangle scaled by its
// depth. The border and glow use the card's tier color. The top row shows
// country and age, then the photo, then name and interest.
//
//	svg := sink.RenderSVG(frame,
//	    sink.WithTitle("Table"),
//	    sink.WithPhotos(true),
//	)
//
// # JSON Output
//
// [RenderJSON] exports the frame for external tools and the websocket
// stream. Every item carries its world position and orientation plus its
// projection into the viewport.
//
// # PDF and PNG Output
//
// [RenderPNG] and [RenderPDF] generate SVG first and convert it via
// [render.ToPNG] and [render.ToPDF]. These require librsvg:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [scene.Frame]: github.com/matzehuels/cardstage/pkg/scene.Frame
// [render.ToPNG]: github.com/matzehuels/cardstage/pkg/render.ToPNG
// [render.ToPDF]: github.com/matzehuels/cardstage/pkg/render.ToPDF
package sink
