package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/bddview/pkg/bdd"
)

// demoCommand draws the startup example.
func (c *CLI) demoCommand() *cobra.Command {
	var (
		flags  passFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Draw the built-in example diagram",
		Long: `Draw the diagram every surface starts with:

  ` + bdd.ExampleText + `

x2 tests first; its low branch goes to x1 and its high branch to the 1
terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd.Flags(), c.Config, c.Logger)
			if output == "" {
				output = "example"
				if len(opts.Formats) == 1 {
					output += "." + opts.Formats[0]
				}
			}
			return c.runRender(cmd.Context(), bdd.ExampleText, opts, output)
		},
	}

	flags.register(cmd.Flags(), true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: example.<format>)")

	return cmd
}
