package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netergm/pkg/config"
	"github.com/matzehuels/netergm/pkg/errors"
	netio "github.com/matzehuels/netergm/pkg/io"
	"github.com/matzehuels/netergm/pkg/model"
	"github.com/matzehuels/netergm/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		output string
		flags  cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "inspect [netergm.toml]",
		Short: "Summarize the network and the observed model statistics",
		Long: `Summarize the network and the observed model statistics.

Loads the project's tables without fitting anything, prints the network
summary and the observed value of every term of every model. Use this to
check a project file before running 'fit'. With --output the summary,
including every node and tie, is written as JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			return c.runInspect(cmd.Context(), cfg, output, flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the network summary as JSON")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, cfg *config.Config, output string, flags cacheFlags) error {
	runner, err := c.newRunner(ctx, cfg, flags)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	g, err := runner.Load(ctx, pipeline.FromConfig(cfg))
	if err != nil {
		return err
	}
	prog.done("Loaded network")

	summary := netio.Summarize(g)
	writeSummary(c.out, cfg.Name, &summary)
	fmt.Fprintln(c.out)

	failed := 0
	specs := cfg.Specifications()
	for _, spec := range specs {
		m, err := model.Bind(g, spec)
		if err != nil {
			printError(c.out, "%s: %s", spec.Name, errors.UserMessage(err))
			failed++
			continue
		}
		fmt.Fprintln(c.out, StyleValue.Bold(true).Render(spec.Name))
		fmt.Fprint(c.out, observedTable(m.Labels(), m.Observed()))
		fmt.Fprintln(c.out)
	}

	if output != "" {
		if err := netio.ExportSummary(g, output); err != nil {
			return fmt.Errorf("write summary %s: %w", output, err)
		}
		printFile(c.out, output)
	}

	if failed > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "%d of %d models have invalid terms", failed, len(specs))
	}
	printNextStep(c.out, "Fit", "netergm fit")
	return nil
}

// observedTable renders term labels with their observed statistics.
func observedTable(labels []string, observed []float64) string {
	width := len("term")
	for _, l := range labels {
		width = max(width, len(l))
	}
	cols := []column{
		{title: "term", width: width + 2, left: true},
		{title: "observed", width: 10},
	}
	rows := make([][]string, len(labels))
	for i, l := range labels {
		rows[i] = []string{l, strconv.FormatFloat(observed[i], 'g', 6, 64)}
	}
	return table(cols, rows)
}
