package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/llm-d-incubation/loss-simulator/internal/engines/sweep"
	"github.com/llm-d-incubation/loss-simulator/pkg/config"
)

var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate one arrival rate",
	Long: `Run a single trial at --arrival-rate and print its comparison row:
arrival rate, service rate, then analytic and empirical P0 Pn Q A k.`,
	RunE: runTrial,
}

func init() {
	RunCmd.Flags().Float64("arrival-rate", config.DefaultMaxArrivalRate, "arrival rate of the trial")
	RunCmd.Flags().Bool("verbose", false, "also print the final statistics")
	RunCmd.Flags().Bool("json", false, "print the whole trial result as JSON instead of a row")
}

func runTrial(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, err := sweep.NewEngine(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := engine.RunTrial(ctx, cfg.Load.ArrivalRate)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Fprintln(out, result.Row().Format())
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		fmt.Fprintf(out, "trial %s: %s\n", result.ID, result.Snapshot)
		printComparison(out, result.Analytic, result.Empirical)
	}
	return nil
}
