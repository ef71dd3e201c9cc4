package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bddview/pkg/cache"
	"github.com/matzehuels/bddview/pkg/observability"
	"github.com/matzehuels/bddview/pkg/pipeline"
	"github.com/matzehuels/bddview/pkg/server"
)

// serverKeyPrefix keeps server entries apart from CLI entries in a shared cache.
const serverKeyPrefix = "bddview:server:"

// serveCommand creates the serve command for the HTTP form server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags    passFlags
		addr     string
		maxInput int
		metrics  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the node-list form over HTTP",
		Long: `Serve a web form that draws node lists.

Every browser session keeps its own surface: the example is drawn first, and
each submitted list is drawn on a surface that only ever grows. The form posts
to /render and is redirected back, so reloading the page never re-submits.

  GET  /            the form and the current drawing
  POST /render      submit a node list (field "nodes")
  GET  /render.svg  draw ?nodes= without a session
  GET  /healthz     build information
  GET  /metrics     Prometheus metrics (disable with --metrics=false)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd.Flags(), c.Config, c.Logger)
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			if !cmd.Flags().Changed("max-input") {
				maxInput = c.Config.Server.MaxInput
			}
			return c.runServe(cmd.Context(), opts, addr, maxInput, metrics)
		},
	}

	flags.register(cmd.Flags(), false)
	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().IntVar(&maxInput, "max-input", 0, "largest accepted node list in bytes (default 64 KiB)")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "expose /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts pipeline.Options, addr string, maxInput int, withMetrics bool) error {
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	cc, err := c.newCache(ctx, opts.NoCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), serverKeyPrefix), c.Logger)
	runner.TTL = c.Config.Cache.TTL
	defer runner.Close()

	srvOpts := []server.Option{
		server.WithLogger(c.Logger),
		server.WithOptions(opts),
		server.WithMaxInput(maxInput),
	}
	if withMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := observability.NewMetrics(reg)
		observability.SetPipelineHooks(m)
		observability.SetCacheHooks(m)
		observability.SetHTTPHooks(m)
		defer observability.Reset()
		srvOpts = append(srvOpts, server.WithMetrics(m))
	}

	printInfo("Serving on http://%s", addr)
	return server.New(runner, srvOpts...).ListenAndServe(ctx, addr)
}
