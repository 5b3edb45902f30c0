package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/netergm/pkg/compare"
	netio "github.com/matzehuels/netergm/pkg/io"
)

// reportCommand creates the report command for printing a saved report.
func (c *CLI) reportCommand() *cobra.Command {
	var criterion string

	cmd := &cobra.Command{
		Use:   "report [report.json]",
		Short: "Print a saved report",
		Long: `Print a saved report.

Reads a report written by 'fit' and prints its coefficient tables and model
ranking. The ranking is recomputed, so a report fitted with the default
criterion can be re-ranked by BIC without refitting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			crit, err := compare.ParseCriterion(criterion)
			if err != nil {
				return err
			}
			report, err := netio.ImportReport(args[0])
			if err != nil {
				return err
			}
			writeReport(c.out, report, crit)
			return nil
		},
	}

	cmd.Flags().StringVarP(&criterion, "criterion", "c", string(compare.AIC), "ranking criterion: aic, bic")

	return cmd
}
