package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/cardstage/pkg/card"
	"github.com/matzehuels/cardstage/pkg/scene"
)

// DefaultBackground matches the viewer's backdrop.
const DefaultBackground = "#050505"

const cardCSS = `
    .card-bg { fill: rgba(8, 12, 14, 0.85); stroke-width: 2; }
    .card-text { font-family: Helvetica, Arial, sans-serif; fill: rgba(255, 255, 255, 0.9); }
    .card-name { font-size: 14px; font-weight: bold; }
    .card-meta { font-size: 10px; fill: rgba(255, 255, 255, 0.7); }
    .title { font-family: Helvetica, Arial, sans-serif; font-size: 20px; fill: #00e5ff; }`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	photos     bool
	title      string
}

func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }
func WithPhotos(on bool) SVGOption          { return func(r *svgRenderer) { r.photos = on } }
func WithTitle(title string) SVGOption      { return func(r *svgRenderer) { r.title = title } }

// RenderSVG draws the frame as a standalone SVG document.
func RenderSVG(fr scene.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{background: DefaultBackground, photos: true}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := fr.Width, fr.Height
	if w <= 0 || h <= 0 {
		w, h = scene.DefaultWidth, scene.DefaultHeight
		fr.Width, fr.Height = w, h
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n", w, h, w, h)
	renderDefs(&buf)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}

	for _, p := range paintOrder(fr) {
		r.renderCard(&buf, p)
	}

	if r.title != "" {
		fmt.Fprintf(&buf, `  <text class="title" x="24" y="36">%s</text>`+"\n", escapeXML(r.title))
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	for _, t := range []card.Tier{card.TierA, card.TierB, card.TierC} {
		fmt.Fprintf(buf, `    <filter id="glow-%s" x="-20%%" y="-20%%" width="140%%" height="140%%">`+
			`<feDropShadow dx="0" dy="0" stdDeviation="6" flood-color="%s"/></filter>`+"\n", t, t.Color())
	}
	buf.WriteString("  </defs>\n")
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", cardCSS)
}

// renderCard draws one card centered on its projection. Card-local
// coordinates span [-60,60]×[-80,80] and are scaled by perspective.
func (r *svgRenderer) renderCard(buf *bytes.Buffer, p projected) {
	c := p.item.Card
	color := c.Color()
	hw, hh := CardWidth/2.0, CardHeight/2.0

	fmt.Fprintf(buf, `  <g class="card" id="card-%d" transform="translate(%.2f %.2f) scale(%.4f)">`+"\n",
		p.item.Index, p.proj.X, p.proj.Y, p.proj.Scale)
	fmt.Fprintf(buf, `    <rect class="card-bg" x="%.0f" y="%.0f" width="%d" height="%d" rx="6" stroke="%s" filter="url(#glow-%s)"/>`+"\n",
		-hw, -hh, CardWidth, CardHeight, color, c.Tier)

	fmt.Fprintf(buf, `    <text class="card-text card-meta" x="%.0f" y="%.0f">%s</text>`+"\n", -hw+8, -hh+16, escapeXML(truncate(c.Country, 10)))
	fmt.Fprintf(buf, `    <text class="card-text card-meta" x="%.0f" y="%.0f" text-anchor="end">%s</text>`+"\n", hw-8, -hh+16, escapeXML(c.Age))

	if r.photos && c.PhotoURL != "" {
		fmt.Fprintf(buf, `    <image href="%s" x="-40" y="-58" width="80" height="80" preserveAspectRatio="xMidYMid slice"/>`+"\n", escapeXML(c.PhotoURL))
	}

	fmt.Fprintf(buf, `    <text class="card-text card-name" x="0" y="%.0f" text-anchor="middle">%s</text>`+"\n", hh-38, escapeXML(truncate(c.Name, 14)))
	fmt.Fprintf(buf, `    <text class="card-text card-meta" x="0" y="%.0f" text-anchor="middle">%s</text>`+"\n", hh-18, escapeXML(truncate(c.Interest, 18)))
	buf.WriteString("  </g>\n")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// truncate shortens s to at most n runes, marking the cut with "..".
func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:max(n-2, 1)]) + ".."
}
