package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/llm-d-incubation/loss-simulator/pkg/analyzer"
	"github.com/llm-d-incubation/loss-simulator/pkg/config"
)

var AnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Evaluate the Erlang loss model without simulating",
	Long: `Print the analytic P0 Pn Q A k for every arrival rate of the sweep range.

With --target-reject the command sizes the system instead: the largest arrival
rate the configured channels carry within the rejection target, and the fewest
channels that meet the target at --arrival-rate.`,
	RunE: runAnalyze,
}

func init() {
	AnalyzeCmd.Flags().Float64("min-rate", config.DefaultMinArrivalRate, "first arrival rate")
	AnalyzeCmd.Flags().Float64("max-rate", config.DefaultMaxArrivalRate, "last arrival rate (inclusive)")
	AnalyzeCmd.Flags().Float64("step", config.DefaultArrivalRateStep, "arrival rate increment")
	AnalyzeCmd.Flags().Float64("arrival-rate", config.DefaultMaxArrivalRate, "arrival rate used for channel sizing")
	AnalyzeCmd.Flags().Float64("target-reject", 0, "rejection probability target for sizing, in (0, 1)")
	AnalyzeCmd.Flags().Int("max-channels", 1000, "largest channel count considered by sizing")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if target := viper.GetFloat64("target-reject"); target > 0 {
		return runSizing(cmd, cfg, target)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LAMBDA\tRHO\tP0\tPn\tQ\tA\tk")
	for _, rate := range cfg.Sweep.ArrivalRates() {
		m := analyzer.Evaluate(rate, cfg.System.ServiceRate, cfg.System.Channels)
		fmt.Fprintf(w, "%.1f\t%.2f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			rate, analyzer.TrafficIntensity(rate, cfg.System.ServiceRate),
			m.IdleProb, m.RejectProb, m.RelThroughput, m.AbsThroughput, m.AvgBusy)
	}
	return w.Flush()
}

func runSizing(cmd *cobra.Command, cfg *config.SimulationConfig, target float64) error {
	out := cmd.OutOrStdout()

	la, err := analyzer.NewLossAnalyzer(cfg.System.Channels, cfg.System.ServiceRate)
	if err != nil {
		return err
	}
	maxRate, m, err := la.Size(target)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d channels at mu=%.2f carry up to lambda=%.4f with Pn=%.4f (target %.4f)\n",
		cfg.System.Channels, cfg.System.ServiceRate, maxRate, m.RejectProb, target)

	rho := analyzer.TrafficIntensity(cfg.Load.ArrivalRate, cfg.System.ServiceRate)
	channels, err := analyzer.MinChannels(rho, target, viper.GetInt("max-channels"))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "lambda=%.2f needs %d channels for Pn <= %.4f (Pn=%.4f)\n",
		cfg.Load.ArrivalRate, channels, target, analyzer.ErlangB(rho, channels))
	return nil
}
