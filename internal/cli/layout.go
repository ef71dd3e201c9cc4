package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bddview/pkg/pipeline"
)

// layoutCommand creates the layout command, which saves a planned frame.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  passFlags
		input  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [nodes]",
		Short: "Compute node positions and save them as JSON",
		Long: `Compute node positions and save them as JSON.

The layout file records the surface size, the horizontal offset, every node
with its absolute position, the edges and any diagnostics. Render it later with
'bddview visualize', or feed its width and height into the next pass to keep
the surface from shrinking.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args, input)
			if err != nil {
				return err
			}
			opts := flags.options(cmd.Flags(), c.Config, c.Logger)
			opts.Formats = []string{pipeline.FormatJSON}
			return c.runLayout(cmd.Context(), text, opts, output)
		},
	}

	flags.register(cmd.Flags(), false)
	cmd.Flags().StringVarP(&input, "file", "i", "", "read the node list from a file")
	cmd.Flags().StringVarP(&output, "output", "o", defaultBase+".layout.json", "output file, or - for stdout")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, text string, opts pipeline.Options, output string) error {
	runner, err := c.newRunner(ctx, opts.NoCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, text, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	logDiagnostics(c.Logger, res.Diagnostics)

	if err := writeFile(output, res.Artifacts[pipeline.FormatJSON]); err != nil {
		return err
	}
	if output == "-" {
		return nil
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(res.Stats.Records, res.Stats.Placed, res.Stats.Edges, res.Frame.Width, res.Frame.Height, res.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Render", "bddview visualize "+output)
	return nil
}
