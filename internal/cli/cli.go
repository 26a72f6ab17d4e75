// Package cli implements the cardstage command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstage/pkg/buildinfo"
	"github.com/matzehuels/cardstage/pkg/cache"
	"github.com/matzehuels/cardstage/pkg/config"
	"github.com/matzehuels/cardstage/pkg/integrations/google"
	"github.com/matzehuels/cardstage/pkg/pipeline"
	"github.com/matzehuels/cardstage/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cardstage"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag; empty selects the default location.
	ConfigPath string

	// Config is loaded before any subcommand runs.
	Config config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Cardstage arranges spreadsheet rows as cards in 3D",
		Long: `Cardstage turns the rows of a spreadsheet into cards and animates them
between five arrangements: table, sphere, helix, grid and pyramid.

Rows come from Google Sheets, a local CSV file or a MongoDB collection.
Frames can be rendered to SVG/PNG/PDF/JSON, viewed live in the terminal,
or streamed to a browser by the built-in server.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: ~/.config/cardstage/config.toml)")

	root.AddCommand(c.authCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and environment overrides.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", c.ConfigPath)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cardstage/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// sessionDir returns the directory holding the CLI session, next to the
// config file.
func sessionDir() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sessions"), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// applyConfig fills options the user left unset from the config file.
func (c *CLI) applyConfig(opts *pipeline.Options) {
	src, r := c.Config.Source, c.Config.Render

	// A location given on the command line replaces the configured one
	// outright, so a --csv flag is not outvoted by a configured sheet.
	if opts.SpreadsheetID == "" && opts.CSVPath == "" && opts.MongoURI == "" {
		opts.SpreadsheetID = src.SpreadsheetID
		opts.CSVPath = src.CSVPath
		opts.MongoURI = src.MongoURI
	}
	if opts.Range == "" {
		opts.Range = src.Range
	}
	if opts.MongoDatabase == "" {
		opts.MongoDatabase = src.MongoDatabase
	}
	if opts.MongoColl == "" {
		opts.MongoColl = src.MongoCollection
	}

	if len(opts.Modes) == 0 {
		opts.Modes = r.Modes
	}
	if opts.Duration == 0 {
		opts.Duration = r.Duration
	}
	if opts.FPS == 0 {
		opts.FPS = r.FPS
	}
	if opts.Width == 0 {
		opts.Width = r.Width
	}
	if opts.Height == 0 {
		opts.Height = r.Height
	}
	if opts.Seed == 0 {
		opts.Seed = r.Seed
	}
	if opts.Easing == "" {
		opts.Easing = r.Easing
	}
	opts.NoPhotos = opts.NoPhotos || r.NoPhotos

	if opts.APIKey == "" {
		opts.APIKey = c.Config.Google.APIKey
	}
	opts.Logger = c.Logger
}

// applySession authorizes spreadsheet reads with the stored sign-in, if any.
// Without one, reads fall back to the configured API key.
func (c *CLI) applySession(ctx context.Context, opts *pipeline.Options) {
	sess, err := loadSession(ctx)
	if err != nil || sess == nil {
		return
	}
	oauth := c.oauthClient(nil)
	if oauth == nil {
		c.Logger.Debug("stored session ignored: no OAuth client configured")
		return
	}
	opts.HTTPClient = oauth.HTTPClient(ctx, sess.Token)
	opts.Principal = sess.Principal()
}

// oauthClient returns the configured Google OAuth client, or nil when no
// client ID is set.
func (c *CLI) oauthClient(scopes []string) *google.OAuthClient {
	g := c.Config.Google
	if g.ClientID == "" {
		return nil
	}
	return google.NewOAuthClient(google.OAuthConfig{
		ClientID:     g.ClientID,
		ClientSecret: g.ClientSecret,
		Scopes:       scopes,
	})
}

// resolveOptions merges config and sign-in into opts.
func (c *CLI) resolveOptions(ctx context.Context, opts pipeline.Options) pipeline.Options {
	c.applyConfig(&opts)
	c.applySession(ctx, &opts)
	return opts
}

// openSessionStore opens the CLI session file store.
func openSessionStore() (*session.CLIStore, error) {
	dir, err := sessionDir()
	if err != nil {
		return nil, err
	}
	return session.NewCLIStore(dir)
}

// parseList splits a comma-separated flag value, dropping blanks.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if formats := parseList(s); len(formats) > 0 {
		return formats
	}
	return []string{pipeline.FormatSVG}
}
