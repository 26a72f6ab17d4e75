package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstage/pkg/layout"
	"github.com/matzehuels/cardstage/pkg/pipeline"
)

// addSourceFlags registers the flags that pick where rows come from.
func addSourceFlags(cmd *cobra.Command, opts *pipeline.Options) {
	f := cmd.Flags()
	f.StringVar(&opts.Source, "source", "", "row source: sheets, csv, mongo (default: inferred from the flags below)")
	f.StringVar(&opts.SpreadsheetID, "sheet", "", "Google spreadsheet ID")
	f.StringVar(&opts.Range, "range", "", "A1 range to read (default: Data_Template!A2:F)")
	f.StringVar(&opts.CSVPath, "csv", "", "read rows from a CSV or TSV file")
	f.BoolVar(&opts.SkipHeader, "skip-header", false, "skip the first CSV row")
	f.StringVar(&opts.MongoURI, "mongo-uri", "", "read rows from a MongoDB deployment")
	f.StringVar(&opts.MongoDatabase, "mongo-db", "", "MongoDB database (default: "+pipeline.DefaultMongoDatabase+")")
	f.StringVar(&opts.MongoColl, "mongo-collection", "", "MongoDB collection (default: "+pipeline.DefaultMongoCollection+")")
	f.BoolVar(&opts.Refresh, "refresh", false, "bypass cached rows")
}

// modeFlag is a comma-separated list of layout modes.
type modeFlag struct{ modes *[]string }

func (m modeFlag) String() string { return strings.Join(*m.modes, ",") }
func (m modeFlag) Type() string   { return "modes" }

func (m modeFlag) Set(s string) error {
	names := parseList(s)
	if _, err := pipeline.ParseModes(names); err != nil {
		return err
	}
	*m.modes = append(*m.modes, names...)
	return nil
}

// addSimulateFlags registers the flags that shape the animation.
func addSimulateFlags(cmd *cobra.Command, opts *pipeline.Options) {
	f := cmd.Flags()
	f.VarP(modeFlag{&opts.Modes}, "mode", "m", fmt.Sprintf("layout modes to pass through, in order: %s", modeNames()))
	f.IntVar(&opts.Duration, "duration", 0, fmt.Sprintf("base transition duration in ms (default: %d, max: %d)", pipeline.DefaultDuration, pipeline.MaxDuration))
	f.StringVar(&opts.Easing, "easing", "", "easing curve (default: "+pipeline.DefaultEasing+")")
	f.IntVar(&opts.Width, "width", 0, fmt.Sprintf("viewport width (default: %d)", pipeline.DefaultWidth))
	f.IntVar(&opts.Height, "height", 0, fmt.Sprintf("viewport height (default: %d)", pipeline.DefaultHeight))
	f.Uint64Var(&opts.Seed, "seed", 0, fmt.Sprintf("scatter seed (default: %d)", pipeline.DefaultSeed))

	_ = cmd.RegisterFlagCompletionFunc("mode", completeModes)
}

// completeModes offers the layout mode names.
func completeModes(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, m := range layout.Modes() {
		names = append(names, m.String())
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// modeNames lists the layout modes for help text.
func modeNames() string {
	names, _ := completeModes(nil, nil, "")
	return strings.Join(names, ", ")
}
