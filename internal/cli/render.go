package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netergm/pkg/config"
	"github.com/matzehuels/netergm/pkg/pipeline"
	"github.com/matzehuels/netergm/pkg/render"
)

// renderOpts holds the command-line flags for the render command. Empty
// fields keep the project's [render] settings.
type renderOpts struct {
	output string // output file path
	format string // svg, png or dot
	layout string // Graphviz engine
	label  string // attribute used as node label
	size   string // numeric attribute mapped to node width
	color  string // attribute mapped to fill color
	cache  cacheFlags
}

// renderCommand creates the render command for drawing the network.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [netergm.toml]",
		Short: "Draw the network as a node-link diagram",
		Long: `Draw the network as a node-link diagram.

Layout is computed by Graphviz (neato by default). Node labels, sizes and
colors can be mapped to attributes in the project's [render] section or
with flags. The dot format writes the Graphviz source without laying it out.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "" && !render.ValidFormats[render.Format(opts.format)] {
				return fmt.Errorf("invalid format: %s (must be 'svg', 'png' or 'dot')", opts.format)
			}
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <name>.<format> next to the project file)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), png, dot")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "Graphviz layout engine: neato (default), dot, fdp, sfdp, circo, twopi")
	cmd.Flags().StringVar(&opts.label, "label", "", "attribute used as node label")
	cmd.Flags().StringVar(&opts.size, "size", "", "numeric attribute mapped to node size")
	cmd.Flags().StringVar(&opts.color, "color", "", "attribute mapped to node color")
	opts.cache.register(cmd)

	return cmd
}

// apply overrides the pipeline's render settings with the set flags.
func (o renderOpts) apply(opts *pipeline.Options) {
	if o.format != "" {
		opts.Format = render.Format(o.format)
	}
	if o.layout != "" {
		opts.Plot.Layout = o.layout
	}
	if o.label != "" {
		opts.Plot.Label = o.label
	}
	if o.size != "" {
		opts.Plot.Size = o.size
	}
	if o.color != "" {
		opts.Plot.Color = o.color
	}
}

func (c *CLI) runRender(ctx context.Context, cfg *config.Config, ro renderOpts) error {
	runner, err := c.newRunner(ctx, cfg, ro.cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.FromConfig(cfg)
	opts.SkipCompare = true
	opts.Refresh = ro.cache.refresh
	ro.apply(&opts)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.Format))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError(c.out, "Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	path := outputPath(ro.output, cfg.Dir(), cfg.Name, opts.Format.Extension())
	if err := os.WriteFile(path, result.Plot, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	printSuccess(c.out, "Rendered network")
	printFile(c.out, path)
	printStats(c.out, result.Stats.Nodes, result.Stats.Ties, result.CacheInfo.RenderHit)

	return nil
}
