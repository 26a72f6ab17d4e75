package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstage/pkg/errors"
	"github.com/matzehuels/cardstage/pkg/layout"
	"github.com/matzehuels/cardstage/pkg/pipeline"
)

// Layout output formats.
const (
	layoutFormatJSON = "json"
	layoutFormatTOML = "toml"
)

// layoutCommand creates the layout command for printing mode targets.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		format  string
		count   int
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout <mode>",
		Short: "Print the target positions of a layout mode",
		Long: fmt.Sprintf(`Print where each card goes under one layout mode.

Modes: %s.

With --count the targets are computed for that many cards. Otherwise the rows
are loaded from the configured source and counted. The pyramid places at most
%d cards; extra cards keep their previous positions.

Results are cached locally for faster subsequent runs.`, modeNames(), layout.PyramidCapacity),
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeModes,
		RunE: func(cmd *cobra.Command, args []string) error {
			modes, err := pipeline.ParseModes(args)
			if err != nil {
				return err
			}
			if format != layoutFormatJSON && format != layoutFormatTOML {
				return errors.New(errors.ErrCodeInvalidFormat, "unknown layout format %q (must be json or toml)", format)
			}
			ctx := cmd.Context()
			if !cmd.Flags().Changed("count") {
				count = -1
			}
			return c.runLayout(ctx, modes[0], count, c.resolveOptions(ctx, opts), output, format, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", layoutFormatJSON, "output format: json, toml")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of cards (default: count the source rows)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addSourceFlags(cmd, &opts)

	return cmd
}

// runLayout computes the targets and writes them out. A negative count
// means the rows are loaded to find it.
func (c *CLI) runLayout(ctx context.Context, mode layout.Mode, count int, opts pipeline.Options, output, format string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if count < 0 {
		prog := newProgress(loggerFromContext(ctx))
		rows, err := runner.Fetch(ctx, opts)
		if err != nil {
			return err
		}
		count = len(rows)
		prog.done(fmt.Sprintf("Counted %d rows", count))
	}

	targets, cacheHit, err := runner.LayoutWithCacheInfo(ctx, mode, count)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	doc := newLayoutDoc(mode, count, targets)

	if output == "" {
		return writeLayout(os.Stdout, doc, format)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	if err := writeLayout(f, doc, format); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", output, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(count, 0, cacheHit)
	return nil
}

// layoutDoc is the printed form of one mode's targets.
type layoutDoc struct {
	Mode    string      `json:"mode" toml:"mode"`
	Count   int         `json:"count" toml:"count"`
	Placed  int         `json:"placed" toml:"placed"`
	Targets []targetDoc `json:"targets" toml:"targets"`
}

type targetDoc struct {
	Position    [3]float64  `json:"position" toml:"position"`
	Orientation *[4]float64 `json:"orientation,omitempty" toml:"orientation,omitempty"`
}

func newLayoutDoc(mode layout.Mode, count int, targets []layout.Target) layoutDoc {
	doc := layoutDoc{
		Mode:    mode.String(),
		Count:   count,
		Placed:  len(targets),
		Targets: make([]targetDoc, len(targets)),
	}
	for i, t := range targets {
		td := targetDoc{Position: [3]float64{t.Position.X, t.Position.Y, t.Position.Z}}
		if t.HasOrientation {
			q := t.Orientation
			td.Orientation = &[4]float64{q.X, q.Y, q.Z, q.W}
		}
		doc.Targets[i] = td
	}
	return doc
}

func writeLayout(w io.Writer, doc layoutDoc, format string) error {
	if format == layoutFormatTOML {
		return toml.NewEncoder(w).Encode(doc)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
