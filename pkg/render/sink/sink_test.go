package sink

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/cardstage/pkg/card"
	"github.com/matzehuels/cardstage/pkg/geom"
	"github.com/matzehuels/cardstage/pkg/layout"
	"github.com/matzehuels/cardstage/pkg/scene"
)

func testFrame() scene.Frame {
	cam := scene.NewCamera(1280, 800)
	return scene.Frame{
		Seq:    7,
		Width:  1280,
		Height: 800,
		Camera: *cam,
		Mode:   layout.Sphere,
		Items: []scene.Item{
			{Index: 0, Card: card.FromRow([]string{"Far & Away", "https://example.com/a.png", "36", "UK", "Math", "$250,000"}), Position: geom.V3(0, 0, 0), Orientation: geom.Identity},
			{Index: 1, Card: card.FromRow([]string{"Near", "", "40", "US", "Golf", "$150,000"}), Position: geom.V3(100, 0, 1000), Orientation: geom.Identity},
			{Index: 2, Card: card.FromRow([]string{"Behind", "", "50", "FR", "Wine", "$10"}), Position: geom.V3(0, 0, 4000), Orientation: geom.Identity},
		},
	}
}

func TestPaintOrder(t *testing.T) {
	order := paintOrder(testFrame())
	if len(order) != 2 {
		t.Fatalf("visible = %d, want 2", len(order))
	}
	if order[0].item.Index != 0 || order[1].item.Index != 1 {
		t.Errorf("paint order = [%d %d], want [0 1] (far to near)", order[0].item.Index, order[1].item.Index)
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testFrame(), WithTitle("Sphere")))

	if !strings.HasPrefix(svg, "<svg") {
		t.Fatal("output should start with <svg")
	}
	if n := strings.Count(svg, `<g class="card"`); n != 2 {
		t.Errorf("card groups = %d, want 2", n)
	}
	if strings.Contains(svg, `id="card-2"`) {
		t.Error("card behind the camera should not be drawn")
	}
	far, near := strings.Index(svg, `id="card-0"`), strings.Index(svg, `id="card-1"`)
	if far < 0 || near < 0 || far > near {
		t.Error("far card should be painted before near card")
	}
	if !strings.Contains(svg, "Far &amp; Away") {
		t.Error("names should be XML escaped")
	}
	if !strings.Contains(svg, `stroke="#3A9F48"`) || !strings.Contains(svg, `stroke="#FDCA35"`) {
		t.Error("cards should be bordered in their tier color")
	}
	if !strings.Contains(svg, `<image href="https://example.com/a.png"`) {
		t.Error("photo should be embedded")
	}
	if !strings.Contains(svg, ">Sphere</text>") {
		t.Error("title missing")
	}
	if !strings.Contains(svg, `translate(640.00 400.00)`) {
		t.Error("card at the origin should be centered in the viewport")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	svg := string(RenderSVG(testFrame(), WithPhotos(false), WithBackground("")))
	if strings.Contains(svg, "<image") {
		t.Error("WithPhotos(false) should omit images")
	}
	if strings.Contains(svg, `height="100%"`) {
		t.Error("empty background should omit the backdrop rect")
	}
}

func TestRenderSVGEmptyFrame(t *testing.T) {
	svg := string(RenderSVG(scene.Frame{}))
	if !strings.Contains(svg, `viewBox="0 0 1280 800"`) {
		t.Error("zero-size frame should fall back to default viewport")
	}
	if strings.Contains(svg, `class="card"`) {
		t.Error("empty frame should draw no cards")
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testFrame(), WithJSONIndent())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out FrameJSON
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	if out.Mode != "sphere" {
		t.Errorf("Mode = %q, want sphere", out.Mode)
	}
	if out.Seq != 7 {
		t.Errorf("Seq = %d, want 7", out.Seq)
	}
	if len(out.Items) != 3 {
		t.Fatalf("Items = %d, want 3", len(out.Items))
	}
	first := out.Items[0]
	if first.Tier != "A" || first.Color != "#3A9F48" {
		t.Errorf("item 0 tier/color = %s/%s", first.Tier, first.Color)
	}
	if first.Screen == nil || first.Screen.X != 640 || first.Screen.Y != 400 {
		t.Errorf("item 0 screen = %+v, want center", first.Screen)
	}
	if out.Items[2].Screen != nil {
		t.Error("item behind the camera should have no screen projection")
	}
	if first.Card != nil {
		t.Error("card content should be omitted by default")
	}
	if !strings.Contains(string(data), `"position": {`) {
		t.Error("positions should use lower-case keys")
	}
}

func TestRenderJSONWithCards(t *testing.T) {
	data, _ := RenderJSON(testFrame(), WithJSONCards())
	if !strings.Contains(string(data), `"net_worth":250000`) {
		t.Error("WithJSONCards should include card content")
	}
}

func TestTerminalDraw(t *testing.T) {
	out := Terminal{Cols: 80, Rows: 20, Plain: true}.Draw(testFrame())
	lines := strings.Split(out, "\n")
	if len(lines) != 20 {
		t.Fatalf("lines = %d, want 20", len(lines))
	}
	for i, l := range lines {
		if n := len([]rune(l)); n != 80 {
			t.Fatalf("line %d has %d cells, want 80", i, n)
		}
	}
	if got := []rune(lines[10])[40]; got != '█' {
		t.Errorf("center cell = %q, want '█'", got)
	}
}

func TestGlyphFor(t *testing.T) {
	tests := []struct {
		size float64
		want rune
	}{
		{0.1, '·'},
		{0.7, '▪'},
		{1.5, '■'},
		{3, '█'},
	}
	for _, tt := range tests {
		if got := glyphFor(tt.size); got != tt.want {
			t.Errorf("glyphFor(%v) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"a long name here", 8, "a long.."},
		{"ünïcödé", 5, "ünï.."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
