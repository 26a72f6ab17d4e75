// Package render converts rendered card frames between output formats.
//
// # Overview
//
// Frames produced by the scene are drawn by the renderers in the [sink]
// subpackage (SVG, JSON, PNG, PDF, terminal). This package holds the
// format conversion they share.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(frame)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [Available] reports whether the tool is installed.
//
// [sink]: github.com/matzehuels/cardstage/pkg/render/sink
package render
