package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstage/pkg/card"
	"github.com/matzehuels/cardstage/pkg/layout"
	"github.com/matzehuels/cardstage/pkg/pipeline"
	"github.com/matzehuels/cardstage/pkg/render/sink"
	"github.com/matzehuels/cardstage/pkg/scene"
	"github.com/matzehuels/cardstage/pkg/tween"
)

// View tuning.
const (
	viewFPS = 30

	// Terminal cells are about twice as tall as wide; the scene viewport is
	// sized in these pseudo-pixels so layouts keep their proportions.
	cellWidthPx  = 8
	cellHeightPx = 16

	rotateStep = 40   // pixels of drag per arrow key
	panStep    = 40   // pixels of drag per pan key
	zoomStep   = 1.15 // dolly factor per +/- key

	viewChromeRows = 3 // header and footer lines
)

// viewCommand creates the view command for watching the cards in the terminal.
func (c *CLI) viewCommand() *cobra.Command {
	var noCache bool
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Watch the cards move in the terminal",
		Long: `Open an interactive terminal view of the cards.

Keys:
  1-5      switch to table, sphere, helix, grid or pyramid
  arrows   orbit the camera
  w a s d  pan
  + -      zoom
  c        toggle the card list
  q        quit

Each card is one glyph colored by tier; nearer cards draw heavier glyphs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.runView(ctx, c.resolveOptions(ctx, opts), noCache)
		},
	}

	addSourceFlags(cmd, &opts)
	addSimulateFlags(cmd, &opts)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runView loads the cards, then hands the terminal to the interactive model.
func (c *CLI) runView(ctx context.Context, opts pipeline.Options, noCache bool) error {
	if err := opts.ValidateForSimulate(); err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Loading cards...")
	spinner.Start()

	cards, err := runner.Cards(ctx, opts)
	if err != nil {
		spinner.StopWithError("Fetch failed")
		return err
	}
	spinner.Update(fmt.Sprintf("Building layouts for %d cards...", len(cards)))
	targets, err := runner.Layouts(ctx, len(cards), opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	modes, err := pipeline.ParseModes(opts.Modes)
	if err != nil {
		return err
	}
	easing, err := tween.ParseEasing(opts.Easing)
	if err != nil {
		return err
	}

	rec := &scene.Recorder{}
	sc := scene.New(cards,
		scene.WithRenderer(rec),
		scene.WithSeed(opts.Seed),
		scene.WithBaseDuration(opts.BaseDuration()),
		scene.WithEasing(easing),
		scene.WithTargets(targets),
		scene.WithInitialMode(modes[0]),
		scene.WithLogger(c.Logger),
	)

	// Anything below an error would tear the alternate screen.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(log.ErrorLevel)
	defer c.Logger.SetLevel(level)

	m := newViewModel(sc, rec, cards)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// viewModel - Interactive scene
// =============================================================================

type tickMsg time.Time

// viewModel is the bubbletea model driving a scene from terminal input.
type viewModel struct {
	scene     *scene.Scene
	rec       *scene.Recorder
	cards     []card.Card
	cols      int
	rows      int
	showCards bool
}

func newViewModel(sc *scene.Scene, rec *scene.Recorder, cards []card.Card) viewModel {
	return viewModel{scene: sc, rec: rec, cards: cards, cols: 80, rows: 24 - viewChromeRows}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/viewFPS, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m viewModel) Init() tea.Cmd {
	m.scene.Resize(m.cols*cellWidthPx, m.rows*cellHeightPx)
	return tick()
}

// modeKeys maps key presses to layout modes.
var modeKeys = map[string]layout.Mode{
	"1": layout.Table,
	"2": layout.Sphere,
	"3": layout.Helix,
	"4": layout.Grid,
	"5": layout.Pyramid,
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.scene.Tick()
		return m, tick()

	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 1)
		m.rows = max(msg.Height-viewChromeRows, 1)
		m.scene.Resize(m.cols*cellWidthPx, m.rows*cellHeightPx)

	case tea.KeyMsg:
		key := msg.String()
		if mode, ok := modeKeys[key]; ok {
			_ = m.scene.TransitionTo(mode)
			return m, nil
		}
		switch key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left":
			m.scene.Rotate(-rotateStep, 0)
		case "right":
			m.scene.Rotate(rotateStep, 0)
		case "up":
			m.scene.Rotate(0, -rotateStep)
		case "down":
			m.scene.Rotate(0, rotateStep)
		case "a":
			m.scene.Pan(-panStep, 0)
		case "d":
			m.scene.Pan(panStep, 0)
		case "w":
			m.scene.Pan(0, -panStep)
		case "s":
			m.scene.Pan(0, panStep)
		case "+", "=":
			m.scene.Zoom(1 / zoomStep)
		case "-", "_":
			m.scene.Zoom(zoomStep)
		case "c":
			m.showCards = !m.showCards
		}
	}
	return m, nil
}

var (
	viewModeStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewHeaderStyle = lipgloss.NewStyle().Foreground(colorGray)
)

func (m viewModel) View() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n")

	if m.showCards {
		b.WriteString(m.cardList())
	} else {
		b.WriteString(sink.Terminal{Cols: m.cols, Rows: m.rows}.Draw(m.rec.Last))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("1-5 mode  ←↑↓→ orbit  wasd pan  +/- zoom  c cards  q quit"))

	return b.String()
}

// header shows the mode buttons with the current one highlighted.
func (m viewModel) header() string {
	current := m.scene.Mode()
	parts := make([]string, 0, len(layout.Modes())+1)
	for i, mode := range layout.Modes() {
		label := fmt.Sprintf("%d %s", i+1, mode)
		if mode == current {
			parts = append(parts, viewModeStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, viewHeaderStyle.Render(" "+label+" "))
		}
	}
	status := fmt.Sprintf("%d cards", len(m.cards))
	if m.scene.Animating() {
		status += " · moving"
	}
	parts = append(parts, StyleDim.Render(status))
	return strings.Join(parts, " ")
}

// cardList renders as many cards as fit the screen.
func (m viewModel) cardList() string {
	// Rounded border, header and separator take four lines.
	n := max(m.rows-4, 0)
	cards := m.cards
	if len(cards) > n {
		cards = cards[:n]
	}
	return cardTable(cards)
}
