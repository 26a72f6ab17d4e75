// Package pipeline provides the headless card pipeline for cardstage.
//
// This package implements the fetch → layout → simulate → render pipeline
// shared by the CLI and the server. Centralizing it keeps caching, defaults
// and validation identical across entry points.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Fetch: Load card rows from a Google Sheet, a CSV file or MongoDB
//  2. Layout: Compute the target set of every requested mode
//  3. Simulate: Run the scene on a virtual clock through each mode in turn
//  4. Render: Encode the settled frame (SVG, PNG, PDF, JSON)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    CSVPath: "people.csv",
//	    Modes:   []string{"table", "helix"},
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstage/pkg/cache"
	"github.com/matzehuels/cardstage/pkg/card"
	"github.com/matzehuels/cardstage/pkg/errors"
	"github.com/matzehuels/cardstage/pkg/layout"
	"github.com/matzehuels/cardstage/pkg/scene"
	"github.com/matzehuels/cardstage/pkg/tween"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultDuration is the base transition duration in milliseconds.
	// Each card takes between one and two times this long.
	DefaultDuration = 2000

	// DefaultFPS is the virtual frame rate of the simulation.
	DefaultFPS = 60

	// MaxFPS bounds the simulation so a typo cannot produce millions of frames.
	MaxFPS = 240

	// MaxDuration bounds the base duration in milliseconds for the same reason.
	MaxDuration = 60_000

	// MaxModes bounds how many transitions one simulation plays.
	MaxModes = 16

	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = scene.DefaultWidth

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = scene.DefaultHeight

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultEasing is the transition easing curve.
	DefaultEasing = "exponential-inout"

	// DefaultMongoDatabase and DefaultMongoCollection locate card documents
	// when only a URI is given.
	DefaultMongoDatabase   = "cardstage"
	DefaultMongoCollection = "people"
)

// DefaultMode is the mode the pipeline settles in when none is given.
var DefaultMode = layout.Table.String()

// Source constants.
const (
	SourceSheets = "sheets"
	SourceCSV    = "csv"
	SourceMongo  = "mongo"
	SourceStatic = "static"
)

// ValidSources is the set of supported row sources.
var ValidSources = map[string]bool{
	SourceSheets: true,
	SourceCSV:    true,
	SourceMongo:  true,
	SourceStatic: true,
}

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Fetch options
	Source        string     `json:"source,omitempty"`
	SpreadsheetID string     `json:"spreadsheet_id,omitempty"`
	Range         string     `json:"range,omitempty"`
	CSVPath       string     `json:"csv_path,omitempty"`
	SkipHeader    bool       `json:"skip_header,omitempty"`
	MongoURI      string     `json:"mongo_uri,omitempty"`
	MongoDatabase string     `json:"mongo_database,omitempty"`
	MongoColl     string     `json:"mongo_collection,omitempty"`
	Rows          [][]string `json:"rows,omitempty"` // inline rows for the static source
	Refresh       bool       `json:"refresh,omitempty"`

	// Simulation options
	Modes    []string `json:"modes,omitempty"`
	Duration int      `json:"duration,omitempty"` // base duration in ms
	FPS      int      `json:"fps,omitempty"`
	Easing   string   `json:"easing,omitempty"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Seed     uint64   `json:"seed,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	NoPhotos bool     `json:"no_photos,omitempty"`
	Title    string   `json:"title,omitempty"`
	Scale    float64  `json:"scale,omitempty"` // PNG scale factor

	// Runtime options (not serialized)
	Logger     *log.Logger  `json:"-"`
	HTTPClient *http.Client `json:"-"` // authorized client for the Sheets API
	APIKey     string       `json:"-"`
	Principal  string       `json:"-"` // whose credentials HTTPClient carries

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Cards are the records the scene was built from.
	Cards []card.Card

	// RowsHash is the content hash of the fetched rows.
	RowsHash string

	// Frame is the last frame drawn, after every transition settled.
	Frame scene.Frame

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CardCount    int
	Frames       int
	Simulated    time.Duration // virtual time covered by the simulation
	FetchTime    time.Duration
	LayoutTime   time.Duration
	SimulateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FetchHit  bool // Whether rows came from cache
	LayoutHit bool // Whether every layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSource checks that a source is valid.
func ValidateSource(source string) error {
	if !ValidSources[source] {
		return errors.New(errors.ErrCodeInvalidSource, "invalid source: %q (must be one of: sheets, csv, mongo, static)", source)
	}
	return nil
}

// ParseModes resolves mode names in order.
func ParseModes(names []string) ([]layout.Mode, error) {
	modes := make([]layout.Mode, 0, len(names))
	for _, name := range names {
		m, err := layout.ParseMode(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidMode, err, "invalid mode: %q", name)
		}
		modes = append(modes, m)
	}
	return modes, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForFetch(); err != nil {
		return err
	}
	if err := o.ValidateForSimulate(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForFetch picks the source when unset and checks its required fields.
func (o *Options) ValidateForFetch() error {
	if o.Source == "" {
		o.Source = o.inferSource()
	}
	o.Source = strings.ToLower(o.Source)
	if err := ValidateSource(o.Source); err != nil {
		return err
	}

	switch o.Source {
	case SourceSheets:
		if o.SpreadsheetID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "spreadsheet_id is required")
		}
	case SourceCSV:
		if o.CSVPath == "" {
			return errors.New(errors.ErrCodeInvalidPath, "csv_path is required")
		}
	case SourceMongo:
		if o.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidInput, "mongo_uri is required")
		}
		if o.MongoDatabase == "" {
			o.MongoDatabase = DefaultMongoDatabase
		}
		if o.MongoColl == "" {
			o.MongoColl = DefaultMongoCollection
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// inferSource guesses the source from whichever location is set.
func (o *Options) inferSource() string {
	switch {
	case o.CSVPath != "":
		return SourceCSV
	case o.MongoURI != "":
		return SourceMongo
	case len(o.Rows) > 0:
		return SourceStatic
	default:
		return SourceSheets
	}
}

// SetSimulateDefaults sets default values for the simulation.
func (o *Options) SetSimulateDefaults() {
	if len(o.Modes) == 0 {
		o.Modes = []string{DefaultMode}
	}
	if o.Duration == 0 {
		o.Duration = DefaultDuration
	}
	if o.FPS == 0 {
		o.FPS = DefaultFPS
	}
	if o.Easing == "" {
		o.Easing = DefaultEasing
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForSimulate validates and sets defaults for the simulation.
func (o *Options) ValidateForSimulate() error {
	o.SetSimulateDefaults()
	if len(o.Modes) > MaxModes {
		return errors.New(errors.ErrCodeInvalidInput, "at most %d modes, got %d", MaxModes, len(o.Modes))
	}
	if _, err := ParseModes(o.Modes); err != nil {
		return err
	}
	if _, err := tween.ParseEasing(o.Easing); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid easing: %q", o.Easing)
	}
	if o.Duration < 0 || o.Duration > MaxDuration {
		return errors.New(errors.ErrCodeInvalidInput, "duration must be between 0 and %d ms, got %d", MaxDuration, o.Duration)
	}
	if o.FPS < 0 || o.FPS > MaxFPS {
		return errors.New(errors.ErrCodeInvalidInput, "fps must be at most %d, got %d", MaxFPS, o.FPS)
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid size %dx%d", o.Width, o.Height)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetSimulateDefaults()
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// BaseDuration returns Duration as a time.Duration.
func (o *Options) BaseDuration() time.Duration {
	return time.Duration(o.Duration) * time.Millisecond
}

// FrameInterval returns the virtual time between two frames.
func (o *Options) FrameInterval() time.Duration {
	if o.FPS <= 0 {
		return time.Second / DefaultFPS
	}
	return time.Second / time.Duration(o.FPS)
}

// Photos reports whether rendered cards carry their photo.
func (o *Options) Photos() bool {
	return !o.NoPhotos
}

// Location returns the place rows are read from, used in cache keys.
func (o *Options) Location() string {
	switch o.Source {
	case SourceCSV:
		return o.CSVPath
	case SourceMongo:
		return o.MongoURI + "/" + o.MongoDatabase + "/" + o.MongoColl
	case SourceStatic:
		return cache.HashJSON(o.Rows)
	default:
		return o.SpreadsheetID
	}
}

// RowsKeyOpts returns cache key options for fetching rows.
func (o *Options) RowsKeyOpts() cache.RowsKeyOpts {
	rng := ""
	if o.Source == SourceSheets {
		rng = o.Range
	}
	return cache.RowsKeyOpts{
		Location:  o.Location(),
		Range:     rng,
		Principal: o.Principal,
	}
}

// FrameKeyOpts returns cache key options for one rendered format.
func (o *Options) FrameKeyOpts(format string) cache.FrameKeyOpts {
	return cache.FrameKeyOpts{
		Modes:    o.Modes,
		Format:   format,
		Width:    o.Width,
		Height:   o.Height,
		Seed:     o.Seed,
		Duration: o.BaseDuration(),
		FPS:      o.FPS,
		Photos:   o.Photos(),
		Title:    o.Title,
		Scale:    o.Scale,
	}
}
