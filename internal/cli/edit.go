package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bddview/pkg/bdd"
	"github.com/matzehuels/bddview/pkg/pipeline"
)

// editCommand creates the interactive terminal form.
func (c *CLI) editCommand() *cobra.Command {
	var (
		flags  passFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a node list in the terminal and redraw on every save",
		Long: `Open a terminal form for node lists.

The example is drawn first. Each ctrl+s draws the current text to the output
file(s) on the same surface, which grows to fit and never shrinks while the
form is open. Problems in the list are shown under the form.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd.Flags(), c.Config, log.NewWithOptions(io.Discard, log.Options{}))
			return c.runEdit(cmd.Context(), opts, output)
		},
	}

	flags.register(cmd.Flags(), true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (several)")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, opts pipeline.Options, output string) error {
	runner, err := c.newRunner(ctx, opts.NoCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	m, err := newEditModel(ctx, runner, opts, outputPaths(opts.Formats, output, defaultBase))
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}

	em := final.(editModel)
	printSuccess("Drew %d node lists", em.passes)
	for _, p := range em.written {
		printFile(p)
	}
	printDetail("final surface %g×%g", em.size.Width, em.size.Height)
	return nil
}

// =============================================================================
// editModel - terminal form
// =============================================================================

type editKeys struct {
	Draw    key.Binding
	Example key.Binding
	Quit    key.Binding
}

func (k editKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Draw, k.Example, k.Quit}
}

func (k editKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultEditKeys = editKeys{
	Draw: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "draw"),
	),
	Example: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("ctrl+e", "example"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
}

// passRunner is the part of *pipeline.Runner the form needs.
type passRunner interface {
	Execute(ctx context.Context, input string, opts pipeline.Options) (*pipeline.Result, error)
}

// passMsg carries the outcome of one submission back into Update.
type passMsg struct {
	result  *pipeline.Result
	written []string
	err     error
}

type editModel struct {
	ctx    context.Context
	runner passRunner
	opts   pipeline.Options
	paths  map[string]string

	input textarea.Model
	help  help.Model
	keys  editKeys

	// size is the surface carried from one pass into the next.
	size        pipeline.Size
	passes      int
	written     []string
	diagnostics []string
	err         error
	busy        bool
}

var (
	editTitleStyle = StyleTitle.MarginBottom(1)
	editHelpStyle  = lipgloss.NewStyle().MarginTop(1)
)

// newEditModel draws the startup example and returns the form ready for input.
func newEditModel(ctx context.Context, runner passRunner, opts pipeline.Options, paths map[string]string) (editModel, error) {
	ta := textarea.New()
	ta.Placeholder = bdd.ExampleText
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(4)
	ta.Focus()

	m := editModel{
		ctx:    ctx,
		runner: runner,
		opts:   opts,
		paths:  paths,
		input:  ta,
		help:   help.New(),
		keys:   defaultEditKeys,
		size:   opts.Size(),
	}

	msg := m.draw(bdd.ExampleText)().(passMsg)
	if msg.err != nil {
		return m, fmt.Errorf("draw example: %w", msg.err)
	}
	m.apply(msg)
	return m, nil
}

func (m editModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		if msg.Width > 4 {
			m.input.SetWidth(msg.Width - 4)
		}
		return m, nil
	case passMsg:
		m.busy = false
		m.apply(msg)
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Draw):
			if m.busy {
				return m, nil
			}
			m.busy = true
			return m, m.draw(m.input.Value())
		case key.Matches(msg, m.keys.Example):
			m.input.SetValue(bdd.ExampleText)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// draw runs one pass on the current surface and writes the outputs.
// The text is passed on as typed; the parser trims each token.
func (m editModel) draw(text string) tea.Cmd {
	opts := m.opts
	opts.Width, opts.Height = m.size.Width, m.size.Height
	ctx, runner, paths := m.ctx, m.runner, m.paths

	return func() tea.Msg {
		res, err := runner.Execute(ctx, text, opts)
		if err != nil {
			return passMsg{err: err}
		}
		written, err := writeArtifacts(res.Artifacts, paths)
		return passMsg{result: res, written: written, err: err}
	}
}

func (m *editModel) apply(msg passMsg) {
	m.err = msg.err
	if msg.result == nil {
		return
	}
	m.passes++
	m.size = msg.result.Frame.Size
	m.written = msg.written
	m.diagnostics = msg.result.Diagnostics.Strings()
}

func (m editModel) View() string {
	var b strings.Builder

	b.WriteString(editTitleStyle.Render("bddview"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.busy:
		b.WriteString(StyleDim.Render("drawing..."))
	case m.err != nil:
		b.WriteString(StyleError.Render(iconError + " " + m.err.Error()))
	default:
		status := fmt.Sprintf("%s pass %d · surface %g×%g · %s",
			iconSuccess, m.passes, m.size.Width, m.size.Height, strings.Join(m.written, ", "))
		b.WriteString(StyleSuccess.Render(status))
	}
	b.WriteString("\n")

	for _, d := range m.diagnostics {
		b.WriteString(StyleWarning.Render(iconWarning + " " + d))
		b.WriteString("\n")
	}

	b.WriteString(editHelpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return b.String()
}
