// Package config loads cardstage settings from a TOML file and the
// environment.
//
// Settings are resolved in three layers, later layers winning:
//
//  1. the config file (~/.config/cardstage/config.toml or --config)
//  2. CARDSTAGE_* environment variables
//  3. command-line flags, applied by the caller
//
// A missing file at the default location is not an error; a missing file
// that was named explicitly is.
package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// FileName is the config file name inside [Dir].
	FileName = "config.toml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CARDSTAGE_"

	// DefaultAddr is the address `cardstage serve` listens on.
	DefaultAddr = ":8080"
)

// Config is the full set of file-backed settings.
type Config struct {
	Google GoogleConfig `toml:"google"`
	Source SourceConfig `toml:"source"`
	Render RenderConfig `toml:"render"`
	Server ServerConfig `toml:"server"`
}

// GoogleConfig holds OAuth client credentials and an optional API key for
// public spreadsheets.
type GoogleConfig struct {
	ClientID     string `toml:"client_id,omitempty"`
	ClientSecret string `toml:"client_secret,omitempty"`
	APIKey       string `toml:"api_key,omitempty"`
}

// SourceConfig selects where card rows come from.
type SourceConfig struct {
	SpreadsheetID   string `toml:"spreadsheet_id,omitempty"`
	Range           string `toml:"range,omitempty"`
	CSVPath         string `toml:"csv_path,omitempty"`
	MongoURI        string `toml:"mongo_uri,omitempty"`
	MongoDatabase   string `toml:"mongo_database,omitempty"`
	MongoCollection string `toml:"mongo_collection,omitempty"`
}

// RenderConfig holds simulation and output defaults.
type RenderConfig struct {
	Modes    []string `toml:"modes,omitempty"`
	Duration int      `toml:"duration,omitempty"` // ms
	FPS      int      `toml:"fps,omitempty"`
	Width    int      `toml:"width,omitempty"`
	Height   int      `toml:"height,omitempty"`
	Seed     uint64   `toml:"seed,omitempty"`
	Easing   string   `toml:"easing,omitempty"`
	NoPhotos bool     `toml:"no_photos,omitempty"`
}

// ServerConfig configures `cardstage serve`.
type ServerConfig struct {
	Addr      string `toml:"addr,omitempty"`
	PublicURL string `toml:"public_url,omitempty"` // base of the OAuth redirect URL
	RedisAddr string `toml:"redis_addr,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{Server: ServerConfig{Addr: DefaultAddr}}
}

// Dir returns the config directory, honoring XDG_CONFIG_HOME.
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, "cardstage"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "cardstage"), nil
}

// DefaultPath returns Dir()/config.toml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads path (or the default path when empty) on top of [Default] and
// applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := decode(f, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	case stderrors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("open config: %w", err)
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// Parse decodes TOML from r on top of [Default] without consulting the
// environment.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	err := decode(r, &cfg)
	return cfg, err
}

func decode(r io.Reader, cfg *Config) error {
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides fields from CARDSTAGE_* variables looked up with getenv.
// Empty variables are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	str := func(name string, dst *string) {
		if v := getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}
	str("CLIENT_ID", &c.Google.ClientID)
	str("CLIENT_SECRET", &c.Google.ClientSecret)
	str("API_KEY", &c.Google.APIKey)
	str("SPREADSHEET_ID", &c.Source.SpreadsheetID)
	str("RANGE", &c.Source.Range)
	str("CSV_PATH", &c.Source.CSVPath)
	str("MONGO_URI", &c.Source.MongoURI)
	str("REDIS_ADDR", &c.Server.RedisAddr)
	str("ADDR", &c.Server.Addr)
	str("PUBLIC_URL", &c.Server.PublicURL)

	if v := getenv(EnvPrefix + "MODES"); v != "" {
		c.Render.Modes = strings.Split(v, ",")
	}
	if v, err := strconv.Atoi(getenv(EnvPrefix + "DURATION")); err == nil {
		c.Render.Duration = v
	}
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Save writes c to path, creating its directory.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := c.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
