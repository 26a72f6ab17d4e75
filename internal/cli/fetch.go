package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstage/pkg/card"
	"github.com/matzehuels/cardstage/pkg/pipeline"
)

// fetchCommand creates the fetch command for loading and listing cards.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		noCache bool
		asJSON  bool
		limit   int
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Load rows and print them as cards",
		Long: `Load rows from the configured source and print them as cards.

Rows are read from a Google Sheet (--sheet), a CSV file (--csv) or a MongoDB
collection (--mongo-uri). Each row is name, photo URL, age, country, interest
and net worth; the net worth decides the card's tier color.

Rows are cached locally; pass --refresh to read the source again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.runFetch(ctx, c.resolveOptions(ctx, opts), noCache, asJSON, limit)
		},
	}

	addSourceFlags(cmd, &opts)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print cards as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "print at most n cards (0 for all)")

	return cmd
}

// runFetch loads rows and prints the resulting cards.
func (c *CLI) runFetch(ctx context.Context, opts pipeline.Options, noCache, asJSON bool, limit int) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Loading rows...")
	spinner.Start()

	rows, cacheHit, err := runner.FetchWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Fetch failed")
		return err
	}
	spinner.Stop()

	cards := card.FromRows(rows)
	if limit > 0 && limit < len(cards) {
		cards = cards[:limit]
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cards)
	}

	fmt.Println(cardTable(cards))
	printStats(len(rows), 0, cacheHit)
	return nil
}

// tierStyles colors table rows by net worth tier.
var tierStyles = map[card.Tier]lipgloss.Style{
	card.TierA: lipgloss.NewStyle().Foreground(lipgloss.Color(card.TierA.Color())),
	card.TierB: lipgloss.NewStyle().Foreground(lipgloss.Color(card.TierB.Color())),
	card.TierC: lipgloss.NewStyle().Foreground(lipgloss.Color(card.TierC.Color())),
}

// cardTable renders cards as a bordered table, one row per card.
func cardTable(cards []card.Card) string {
	rows := make([][]string, len(cards))
	for i, cd := range cards {
		rows[i] = []string{cd.Name, cd.Age, cd.Country, cd.Interest, cd.NetWorthRaw, cd.Tier.String()}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Age", "Country", "Interest", "Net Worth", "Tier").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(cards) {
				return lipgloss.NewStyle()
			}
			if col == 0 || col == 5 {
				return tierStyles[cards[row].Tier].Bold(col == 5)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}
