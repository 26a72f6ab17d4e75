package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cardstage/pkg/card"
	"github.com/matzehuels/cardstage/pkg/config"
	"github.com/matzehuels/cardstage/pkg/errors"
	"github.com/matzehuels/cardstage/pkg/layout"
	"github.com/matzehuels/cardstage/pkg/pipeline"
)

func TestParseList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"table", []string{"table"}},
		{"table, sphere ,grid", []string{"table", "sphere", "grid"}},
		{",,helix,", []string{"helix"}},
	}

	for _, tt := range tests {
		got := parseList(tt.input)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("parseList(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,pdf,json", []string{"svg", "pdf", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output   string
		format   string
		nFormats int
		want     string
	}{
		{"", "svg", 1, "cardstage.svg"},
		{"", "png", 2, "cardstage.png"},
		{"people.svg", "svg", 1, "people.svg"},
		{"out/people", "png", 2, filepath.Join("out", "people") + ".png"},
		{"out/people.svg", "pdf", 3, "out/people.pdf"},
	}

	for _, tt := range tests {
		if got := outputPath(tt.output, tt.format, tt.nFormats); got != tt.want {
			t.Errorf("outputPath(%q, %q, %d) = %q, want %q", tt.output, tt.format, tt.nFormats, got, tt.want)
		}
	}
}

func TestModeFlag(t *testing.T) {
	var modes []string
	f := modeFlag{&modes}

	if err := f.Set("table,sphere"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := f.Set("grid"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if got := f.String(); got != "table,sphere,grid" {
		t.Errorf("String() = %q, want %q", got, "table,sphere,grid")
	}

	err := f.Set("cube")
	if !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Errorf("Set(cube) error = %v, want INVALID_MODE", err)
	}
}

func TestApplyConfig(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	c.Config = config.Config{
		Google: config.GoogleConfig{APIKey: "key"},
		Source: config.SourceConfig{SpreadsheetID: "sheet-1", Range: "People!A2:F"},
		Render: config.RenderConfig{Modes: []string{"helix"}, Duration: 500, Seed: 7},
	}

	t.Run("config fills unset options", func(t *testing.T) {
		opts := pipeline.Options{}
		c.applyConfig(&opts)
		if opts.SpreadsheetID != "sheet-1" || opts.Range != "People!A2:F" {
			t.Errorf("sheet = %q %q, want sheet-1 People!A2:F", opts.SpreadsheetID, opts.Range)
		}
		if len(opts.Modes) != 1 || opts.Modes[0] != "helix" {
			t.Errorf("Modes = %v, want [helix]", opts.Modes)
		}
		if opts.Duration != 500 || opts.Seed != 7 {
			t.Errorf("Duration, Seed = %d, %d, want 500, 7", opts.Duration, opts.Seed)
		}
		if opts.APIKey != "key" {
			t.Errorf("APIKey = %q, want key", opts.APIKey)
		}
		if opts.Logger != c.Logger {
			t.Error("Logger should be the CLI logger")
		}
	})

	t.Run("flags win", func(t *testing.T) {
		opts := pipeline.Options{CSVPath: "people.csv", Modes: []string{"grid"}, Duration: 100}
		c.applyConfig(&opts)
		if opts.SpreadsheetID != "" {
			t.Errorf("SpreadsheetID = %q, want empty when --csv is given", opts.SpreadsheetID)
		}
		if opts.Modes[0] != "grid" || opts.Duration != 100 {
			t.Errorf("Modes, Duration = %v, %d, want [grid], 100", opts.Modes, opts.Duration)
		}
	})
}

func TestNewLayoutDoc(t *testing.T) {
	tests := []struct {
		mode        layout.Mode
		count       int
		wantPlaced  int
		wantOrients bool
	}{
		{layout.Table, 12, 12, false},
		{layout.Sphere, 12, 12, true},
		{layout.Pyramid, layout.PyramidCapacity + 10, layout.PyramidCapacity, true},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			targets, err := layout.Generate(tt.mode, tt.count)
			if err != nil {
				t.Fatalf("Generate() error: %v", err)
			}
			doc := newLayoutDoc(tt.mode, tt.count, targets)
			if doc.Mode != tt.mode.String() || doc.Count != tt.count {
				t.Errorf("doc = %s/%d, want %s/%d", doc.Mode, doc.Count, tt.mode, tt.count)
			}
			if doc.Placed != tt.wantPlaced || len(doc.Targets) != tt.wantPlaced {
				t.Errorf("Placed = %d (%d targets), want %d", doc.Placed, len(doc.Targets), tt.wantPlaced)
			}
			if got := doc.Targets[0].Orientation != nil; got != tt.wantOrients {
				t.Errorf("has orientation = %v, want %v", got, tt.wantOrients)
			}
			p := targets[0].Position
			if doc.Targets[0].Position != [3]float64{p.X, p.Y, p.Z} {
				t.Errorf("Position = %v, want %v", doc.Targets[0].Position, p)
			}
		})
	}
}

func TestWriteLayoutTOML(t *testing.T) {
	targets, err := layout.Generate(layout.Helix, 3)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := writeLayout(&buf, newLayoutDoc(layout.Helix, 3, targets), layoutFormatTOML); err != nil {
		t.Fatalf("writeLayout() error: %v", err)
	}

	var got layoutDoc
	if _, err := toml.Decode(buf.String(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if got.Mode != "helix" || len(got.Targets) != 3 {
		t.Errorf("decoded %s with %d targets, want helix with 3", got.Mode, len(got.Targets))
	}
}

func TestCardTable(t *testing.T) {
	cards := card.FromRows([][]string{
		{"Ada", "", "36", "UK", "Maths", "$300,000"},
		{"Grace", "", "45", "US", "Navy", "$50,000"},
	})

	out := cardTable(cards)
	for _, want := range []string{"Name", "Ada", "Grace", "Maths", "$300,000"} {
		if !strings.Contains(out, want) {
			t.Errorf("cardTable() missing %q:\n%s", want, out)
		}
	}
}

func TestSessionDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := sessionDir()
	if err != nil {
		t.Fatalf("sessionDir() error: %v", err)
	}
	want := filepath.Join(dir, appName, "sessions")
	if got != want {
		t.Errorf("sessionDir() = %q, want %q", got, want)
	}
}

func TestLoadSessionNone(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	sess, err := loadSession(t.Context())
	if err != nil {
		t.Fatalf("loadSession() error: %v", err)
	}
	if sess != nil {
		t.Errorf("loadSession() = %+v, want nil", sess)
	}
}

func TestListenPort(t *testing.T) {
	tests := map[string]string{
		":8080":        ":8080",
		"0.0.0.0:9000": ":9000",
		"localhost":    "",
		"[::1]:7000":   ":7000",
	}
	for addr, want := range tests {
		if got := listenPort(addr); got != want {
			t.Errorf("listenPort(%q) = %q, want %q", addr, got, want)
		}
	}
}
