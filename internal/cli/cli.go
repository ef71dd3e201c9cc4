// Package cli implements the bddview command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/bddview/pkg/buildinfo"
	"github.com/matzehuels/bddview/pkg/cache"
	"github.com/matzehuels/bddview/pkg/config"
	"github.com/matzehuels/bddview/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "bddview"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs. Flags override it.
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "bddview",
		Short: "bddview draws binary decision diagrams from node lists",
		Long: `bddview draws a binary decision diagram described as a node list such as
"0;1;2,x1,0,1;3,x2,2,1" on a surface that grows to fit the drawing.

Each record is id,variable,low,high; low and high are positions in the list.
Records without a variable are the terminals.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/bddview/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.TTL = c.Config.Cache.TTL
	return r, nil
}

// newCache opens the configured backend. An unreachable redis falls back to
// running without a cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.Config.Cache
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:   cfg.RedisAddr,
			DB:     cfg.RedisDB,
			Prefix: appName + ":",
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, continuing without cache", "error", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	default:
		dir, err := c.cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config != nil && c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/bddview/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// passFlags are the flags shared by every command that runs a pass.
type passFlags struct {
	vizType string
	formats string
	width   float64
	height  float64
	scale   float64
	strict  bool
	noCache bool
}

func (p *passFlags) register(fs *pflag.FlagSet, formats bool) {
	fs.StringVarP(&p.vizType, "type", "t", pipeline.DefaultVizType, "visualization type: canvas (default), graphviz")
	fs.Float64Var(&p.width, "width", pipeline.DefaultWidth, "initial surface width")
	fs.Float64Var(&p.height, "height", pipeline.DefaultHeight, "initial surface height")
	fs.BoolVar(&p.strict, "strict", false, "fail on malformed input instead of drawing what parses")
	fs.BoolVar(&p.noCache, "no-cache", false, "disable caching")
	if formats {
		fs.StringVarP(&p.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
		fs.Float64Var(&p.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	}
}

// options merges the config file with the flags the user actually set.
func (p *passFlags) options(fs *pflag.FlagSet, cfg *config.Config, logger *log.Logger) pipeline.Options {
	opts := pipeline.Options{
		VizType: cfg.Output.VizType,
		Width:   cfg.Surface.Width,
		Height:  cfg.Surface.Height,
		Formats: append([]string(nil), cfg.Output.Formats...),
		Scale:   cfg.Output.Scale,
		Strict:  p.strict,
		NoCache: p.noCache,
		Logger:  logger,
	}
	if fs.Changed("type") {
		opts.VizType = p.vizType
	}
	if fs.Changed("width") {
		opts.Width = p.width
	}
	if fs.Changed("height") {
		opts.Height = p.height
	}
	if fs.Changed("format") {
		opts.Formats = parseFormats(p.formats)
	}
	if fs.Changed("scale") {
		opts.Scale = p.scale
	}
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
