package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/bddview/pkg/errors"
	"github.com/matzehuels/bddview/pkg/pipeline"
)

// defaultBase names output files when no --output is given.
const defaultBase = "bdd"

// renderCommand creates the render command: node list in, drawings out.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags  passFlags
		input  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "render [nodes]",
		Short: "Draw a node list to SVG, PNG, PDF, JSON or DOT",
		Long: `Draw a node list.

The node list is taken from the argument, from --file, or from stdin. Problems
in the list (bad ids, forward references, unreachable nodes) are reported as
warnings and the diagram is drawn as far as it can be; use --strict to fail
instead.

Examples:
  bddview render "0;1;2,x1,0,1;3,x2,2,1"
  bddview render -i diagram.txt -f svg,png -o out/diagram
  echo "0;1;2,a,0,1" | bddview render -t graphviz -o -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args, input)
			if err != nil {
				return err
			}
			opts := flags.options(cmd.Flags(), c.Config, c.Logger)
			return c.runRender(cmd.Context(), text, opts, output)
		},
	}

	flags.register(cmd.Flags(), true)
	cmd.Flags().StringVarP(&input, "file", "i", "", "read the node list from a file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format), base path (several), or - for stdout")

	return cmd
}

// runRender runs one pass and writes its artifacts.
func (c *CLI) runRender(ctx context.Context, text string, opts pipeline.Options, output string) error {
	if output == "-" && len(opts.Formats) > 1 {
		return errs.New(errs.ErrCodeInvalidPath, "cannot write %d formats to stdout", len(opts.Formats))
	}
	runner, err := c.newRunner(ctx, opts.NoCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Drawing...")
	spinner.Start()

	res, err := runner.Execute(ctx, text, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	logDiagnostics(c.Logger, res.Diagnostics)

	formats := opts.Formats
	if len(formats) == 0 {
		formats = []string{pipeline.FormatSVG}
	}
	written, err := writeArtifacts(res.Artifacts, outputPaths(formats, output, defaultBase))
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d nodes", res.Stats.Placed))

	if output == "-" {
		return nil
	}
	printSuccess("Render complete")
	for _, p := range written {
		printFile(p)
	}
	printStats(res.Stats.Records, res.Stats.Placed, res.Stats.Edges, res.Frame.Width, res.Frame.Height, res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)
	if len(res.Diagnostics) > 0 {
		printWarning("%d problems in the node list (drawn anyway)", len(res.Diagnostics))
	}
	return nil
}
