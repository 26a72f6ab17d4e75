package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `
[google]
client_id = "id.apps.googleusercontent.com"

[source]
spreadsheet_id = "abc123"
range = "Data_Template!A2:F"

[render]
modes = ["table", "helix"]
duration = 1500
width = 1920
height = 1080

[server]
addr = ":9000"
`

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Google.ClientID != "id.apps.googleusercontent.com" {
		t.Errorf("ClientID = %q", cfg.Google.ClientID)
	}
	if cfg.Source.SpreadsheetID != "abc123" {
		t.Errorf("SpreadsheetID = %q, want abc123", cfg.Source.SpreadsheetID)
	}
	if len(cfg.Render.Modes) != 2 || cfg.Render.Modes[1] != "helix" {
		t.Errorf("Modes = %v, want [table helix]", cfg.Render.Modes)
	}
	if cfg.Render.Duration != 1500 {
		t.Errorf("Duration = %d, want 1500", cfg.Render.Duration)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %q, want :9000", cfg.Server.Addr)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
}

func TestParseUnknownKey(t *testing.T) {
	_, err := Parse(strings.NewReader("[source]\nsheet = \"x\"\n"))
	if err == nil || !strings.Contains(err.Error(), "source.sheet") {
		t.Errorf("Parse error = %v, want unknown key source.sheet", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"CARDSTAGE_CLIENT_ID":      "env-id",
		"CARDSTAGE_SPREADSHEET_ID": "env-sheet",
		"CARDSTAGE_REDIS_ADDR":     "localhost:6379",
		"CARDSTAGE_MODES":          "sphere,grid",
		"CARDSTAGE_DURATION":       "900",
		"CARDSTAGE_RANGE":          "",
	}
	cfg, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	cfg.ApplyEnv(func(k string) string { return env[k] })

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ClientID", cfg.Google.ClientID, "env-id"},
		{"SpreadsheetID", cfg.Source.SpreadsheetID, "env-sheet"},
		{"Range", cfg.Source.Range, "Data_Template!A2:F"},
		{"RedisAddr", cfg.Server.RedisAddr, "localhost:6379"},
		{"Modes", strings.Join(cfg.Render.Modes, ","), "sphere,grid"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
	if cfg.Render.Duration != 900 {
		t.Errorf("Duration = %d, want 900", cfg.Render.Duration)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("CARDSTAGE_API_KEY", "key-from-env")

	// Missing default file is fine.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(default) = %v", err)
	}
	if cfg.Google.APIKey != "key-from-env" {
		t.Errorf("APIKey = %q, want key-from-env", cfg.Google.APIKey)
	}

	// Missing explicit file is not.
	if _, err := Load(filepath.Join(dir, "nope.toml")); err == nil {
		t.Error("Load(missing explicit) should fail")
	}

	path := filepath.Join(dir, "cardstage", FileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Source.SpreadsheetID != "abc123" {
		t.Errorf("SpreadsheetID = %q, want abc123", cfg.Source.SpreadsheetID)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "sub", FileName)

	cfg := Default()
	cfg.Source.CSVPath = "people.csv"
	cfg.Render.Modes = []string{"pyramid"}
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Source.CSVPath != "people.csv" || len(got.Render.Modes) != 1 {
		t.Errorf("round trip = %+v", got)
	}

	var buf bytes.Buffer
	if err := cfg.Write(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `csv_path = "people.csv"`) {
		t.Errorf("encoded config missing csv_path:\n%s", buf.String())
	}
}
