package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/llm-d-incubation/loss-simulator/internal/report"
	"github.com/llm-d-incubation/loss-simulator/pkg/config"
)

var CompareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Summarize how well a sweep report matches the loss model",
	Long: `Read a report file written by sweep (decimal points or commas) and print,
for each measure, the mean, standard deviation and maximum of the absolute
difference between analytic and empirical values.`,
	RunE: runCompare,
}

func init() {
	CompareCmd.Flags().String("report", config.DefaultReportPath, "report file to read")
	CompareCmd.Flags().Bool("rows", false, "also print every row")
}

func runCompare(cmd *cobra.Command, args []string) error {
	path := viper.GetString("report")
	rows, err := report.ReadRows(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintf(out, "%s holds no rows\n", path)
		return nil
	}
	if all, _ := cmd.Flags().GetBool("rows"); all {
		for _, r := range rows {
			printComparison(out, r.Analytic, r.Empirical)
		}
	}
	printSummary(out, report.Summarize(rows))
	return nil
}
