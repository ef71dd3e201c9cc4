package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bddview/pkg/graph"
	"github.com/matzehuels/bddview/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering a saved layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		scale      float64
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a saved layout",
		Long: `Render a layout file produced by 'bddview layout' (or 'render -f json').

The layout holds every position and the surface size, so this step only draws.
Graphviz layouts are re-rendered from the DOT source they carry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Formats: c.Config.Output.Formats,
				Scale:   c.Config.Output.Scale,
				NoCache: noCache,
				Logger:  c.Logger,
			}
			if cmd.Flags().Changed("format") {
				opts.Formats = parseFormats(formatsStr)
			}
			if cmd.Flags().Changed("scale") {
				opts.Scale = scale
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (several)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot (comma-separated)")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string) error {
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}
	opts.VizType = l.VizType
	if opts.VizType == "" {
		opts.VizType = graph.VizTypeCanvas
	}
	opts.Width, opts.Height = l.Width, l.Height

	runner, err := c.newRunner(ctx, opts.NoCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s layout...", opts.VizType))
	spinner.Start()
	artifacts, err := runner.RenderLayout(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	written, err := writeArtifacts(artifacts, outputPaths(opts.Formats, output, layoutBase(input)))
	if err != nil {
		return err
	}
	printSuccess("Visualization complete")
	for _, p := range written {
		printFile(p)
	}
	printDetail("%d nodes · %g×%g", len(l.Nodes), l.Width, l.Height)
	return nil
}

// layoutBase strips ".layout.json" (or any extension) from a layout path.
func layoutBase(path string) string {
	if strings.HasSuffix(path, ".layout.json") {
		return strings.TrimSuffix(path, ".layout.json")
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}
