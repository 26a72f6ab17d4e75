package sink

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cardstage/pkg/card"
	"github.com/matzehuels/cardstage/pkg/scene"
)

// Terminal draws frames as a character grid, one glyph per card. Nearer
// cards overwrite farther ones; glyph weight grows with on-screen size.
type Terminal struct {
	Cols, Rows int
	Plain      bool // no ANSI colors
}

var tierStyles = map[card.Tier]lipgloss.Style{
	card.TierA: lipgloss.NewStyle().Foreground(lipgloss.Color(card.TierA.Color())),
	card.TierB: lipgloss.NewStyle().Foreground(lipgloss.Color(card.TierB.Color())),
	card.TierC: lipgloss.NewStyle().Foreground(lipgloss.Color(card.TierC.Color())),
}

// glyphs from small (far) to large (near).
var glyphs = []rune{'·', '▪', '■', '█'}

type cell struct {
	r    rune
	tier card.Tier
	set  bool
}

// Draw renders fr into Rows lines of Cols cells.
func (t Terminal) Draw(fr scene.Frame) string {
	cols, rows := max(t.Cols, 1), max(t.Rows, 1)
	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, cols)
	}

	w, h := fr.Width, fr.Height
	if w <= 0 || h <= 0 {
		w, h = scene.DefaultWidth, scene.DefaultHeight
		fr.Width, fr.Height = w, h
	}

	for _, p := range paintOrder(fr) {
		x := int(p.proj.X / float64(w) * float64(cols))
		y := int(p.proj.Y / float64(h) * float64(rows))
		if x < 0 || x >= cols || y < 0 || y >= rows {
			continue
		}
		grid[y][x] = cell{r: glyphFor(p.proj.Scale * CardWidth / float64(w) * float64(cols)), tier: p.item.Card.Tier, set: true}
	}

	var sb strings.Builder
	for y, line := range grid {
		for _, c := range line {
			switch {
			case !c.set:
				sb.WriteByte(' ')
			case t.Plain:
				sb.WriteRune(c.r)
			default:
				sb.WriteString(tierStyles[c.tier].Render(string(c.r)))
			}
		}
		if y < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// glyphFor picks a glyph for a card spanning size columns.
func glyphFor(size float64) rune {
	switch {
	case size < 0.5:
		return glyphs[0]
	case size < 1:
		return glyphs[1]
	case size < 2:
		return glyphs[2]
	default:
		return glyphs[3]
	}
}
