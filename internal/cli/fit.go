package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netergm/pkg/compare"
	"github.com/matzehuels/netergm/pkg/config"
	netio "github.com/matzehuels/netergm/pkg/io"
	"github.com/matzehuels/netergm/pkg/pipeline"
)

// fitOpts holds the command-line flags for the fit command.
type fitOpts struct {
	output    string            // report JSON path
	criterion compare.Criterion // ranking criterion
	keepGoing bool              // fit remaining models after a failure
	plot      bool              // also render the network
	cache     cacheFlags
}

// fitCommand creates the fit command.
func (c *CLI) fitCommand() *cobra.Command {
	var (
		opts      fitOpts
		criterion string
	)

	cmd := &cobra.Command{
		Use:   "fit [netergm.toml]",
		Short: "Fit every model of a project and rank them",
		Long: `Fit every model of a project and rank them.

Each [[models]] entry of the project file is fitted by maximum
pseudo-likelihood on the same network. The models are then ranked by AIC
(default) or BIC and the full report is written as JSON.

Fits are cached by network content and terms, so rerunning after editing one
model only estimates that model.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			crit, err := compare.ParseCriterion(criterion)
			if err != nil {
				return err
			}
			opts.criterion = crit
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			return c.runFit(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "report file (default: <name>.report.json next to the project file)")
	cmd.Flags().StringVarP(&criterion, "criterion", "c", string(compare.AIC), "ranking criterion: aic, bic")
	cmd.Flags().BoolVar(&opts.keepGoing, "keep-going", false, "fit the remaining models when one fails")
	cmd.Flags().BoolVar(&opts.plot, "plot", false, "also render the network")
	opts.cache.register(cmd)

	return cmd
}

// runFit executes the pipeline and writes the report.
func (c *CLI) runFit(ctx context.Context, cfg *config.Config, fo fitOpts) error {
	runner, err := c.newRunner(ctx, cfg, fo.cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.FromConfig(cfg)
	opts.Refresh = fo.cache.refresh
	opts.KeepGoing = opts.KeepGoing || fo.keepGoing
	opts.SkipRender = !fo.plot

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Fitting %d models...", len(opts.Models)))
	if c.Logger.GetLevel() > log.DebugLevel {
		restore := followFits(spinner, len(opts.Models))
		defer restore()
	}
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError(c.out, "Fit failed")
		if result != nil && result.Report != nil && len(result.Report.Results) > 0 {
			writeReport(c.out, result.Report, fo.criterion)
		}
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	reportPath := outputPath(fo.output, cfg.Dir(), cfg.Name, ".report.json")
	if err := netio.ExportReport(result.Report, reportPath); err != nil {
		return fmt.Errorf("write report %s: %w", reportPath, err)
	}

	writeReport(c.out, result.Report, fo.criterion)
	fmt.Fprintln(c.out)

	report := result.Report
	printSuccess(c.out, "Fitted %d of %d models", len(report.Results), len(opts.Models))
	printFile(c.out, reportPath)
	if result.Plot != nil {
		plotPath := outputPath("", cfg.Dir(), cfg.Name, opts.Format.Extension())
		if err := os.WriteFile(plotPath, result.Plot, 0o644); err != nil {
			return fmt.Errorf("write plot %s: %w", plotPath, err)
		}
		printFile(c.out, plotPath)
	}
	printStats(c.out, result.Stats.Nodes, result.Stats.Ties, result.CacheInfo.FitHits == len(report.Results))
	if best, ok := report.Best(fo.criterion); ok {
		printInfo(c.out, "Best by %s: %s", fo.criterion, StyleNumber.Render(best.Model))
	}
	fmt.Fprintln(c.out)
	printNextStep(c.out, "Show again", "netergm report "+reportPath)

	return nil
}
