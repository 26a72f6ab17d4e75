package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstage/pkg/pipeline"
)

// defaultOutputBase names output files when -o is not given.
const defaultOutputBase = appName

// renderCommand creates the render command: fetch, layout, simulate and
// encode the settled frame in one step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the cards to SVG, PNG, PDF or JSON",
		Long: `Render the cards after they have moved through the given modes.

The scene starts scattered, settles into the first --mode, then transitions
through each following mode in turn. The frame it comes to rest in is
written in every requested format. The animation runs on a virtual clock,
so the same rows and seed always produce the same output.

PNG and PDF output need rsvg-convert on the PATH.

Results are cached locally for faster subsequent runs.`,
		Example: `  cardstage render --csv people.csv -m table,sphere,grid
  cardstage render --sheet 1AbC... -f svg,png -o out/people`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			ctx := cmd.Context()
			return c.runRender(ctx, c.resolveOptions(ctx, opts), output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	addSourceFlags(cmd, &opts)
	addSimulateFlags(cmd, &opts)
	cmd.Flags().IntVar(&opts.FPS, "fps", 0, fmt.Sprintf("simulation frame rate (default: %d)", pipeline.DefaultFPS))

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.NoPhotos, "no-photos", false, "draw cards without photos")
	cmd.Flags().StringVar(&opts.Title, "title", "", "title drawn above the cards")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "PNG pixel scale (default: 1)")

	return cmd
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering cards...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		output:    output,
		cards:     result.Stats.CardCount,
		frames:    result.Stats.Frames,
		cacheHit:  result.CacheInfo.RenderHit,
	})
}

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	output    string
	cards     int
	frames    int
	cacheHit  bool
}

// writeArtifacts writes one file per format and reports them.
func writeArtifacts(p artifactWriteParams) error {
	paths := make([]string, 0, len(p.formats))
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(p.output, format, len(p.formats))
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Render complete")
	for _, path := range paths {
		printFile(path)
	}
	printStats(p.cards, p.frames, p.cacheHit)
	printNewline()
	printNextStep("Watch it move", "cardstage view")
	return nil
}

// outputPath picks the file for format. A single format writes to output
// as given; several formats treat output as a base path and append the
// extension.
func outputPath(output, format string, nFormats int) string {
	if output == "" {
		return defaultOutputBase + "." + format
	}
	if nFormats == 1 {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
}
