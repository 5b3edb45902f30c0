package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netergm/pkg/buildinfo"
	"github.com/matzehuels/netergm/pkg/cache"
	"github.com/matzehuels/netergm/pkg/config"
	"github.com/matzehuels/netergm/pkg/httputil"
	"github.com/matzehuels/netergm/pkg/observability"
	"github.com/matzehuels/netergm/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "netergm"
)

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
	out    io.Writer
}

// New creates a new CLI instance with a default logger. Command output goes
// to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), out: os.Stdout}
}

// SetLogLevel updates the logger's level. At debug level library events are
// traced through the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		registerTraceHooks(c.Logger)
	} else {
		observability.Reset()
	}
}

// SetOutput redirects command output.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "netergm fits exponential random graph models to network data",
		Long:         `netergm loads a network and its node attributes, fits competing ERGM specifications by maximum pseudo-likelihood and ranks them by AIC and BIC.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.fitCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags are the cache controls shared by commands that load data.
type cacheFlags struct {
	noCache bool
	refresh bool
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached fits, plots and downloads")
}

// newRunner creates a pipeline runner for the project's cache settings.
// Downloads are kept for the configured cache TTL.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, flags cacheFlags) (*pipeline.Runner, error) {
	settings := cfg.Cache
	settings.Dir = cfg.Resolve(settings.Dir)
	store, err := newCache(ctx, settings, flags.noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, nil, c.Logger)
	r.Opener = httputil.NewFetcher(httputil.FetcherOptions{
		Cache:   r.Cache,
		Keyer:   r.Keyer,
		TTL:     settings.TTL.Duration,
		Refresh: flags.refresh,
	})
	return r, nil
}

func newCache(ctx context.Context, cfg config.Cache, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cfg.RedisURL, cache.DefaultRedisPrefix)
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// loadConfig reads the project file named by the first argument, or
// [config.DefaultFile] in the working directory when there is none.
func loadConfig(args []string) (*config.Config, error) {
	path := config.DefaultFile
	if len(args) > 0 {
		path = args[0]
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory using XDG standard
// (~/.cache/netergm/).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}

// outputPath returns flag when set, otherwise name+ext inside dir.
func outputPath(flag, dir, name, ext string) string {
	if flag != "" {
		return flag
	}
	return filepath.Join(dir, name+ext)
}
