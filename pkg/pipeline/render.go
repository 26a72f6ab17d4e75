package pipeline

import (
	"fmt"

	"github.com/matzehuels/cardstage/pkg/render/sink"
	"github.com/matzehuels/cardstage/pkg/scene"
)

// RenderFrame encodes fr in every format of opts.
func RenderFrame(fr scene.Frame, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(fr, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(fr, sink.WithJSONIndent(), sink.WithJSONCards())
		case FormatPNG:
			data, err = sink.RenderPNG(fr, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(fr, svgOpts...)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithPhotos(opts.Photos())}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return svgOpts
}
