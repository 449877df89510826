package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tebeka/atexit"

	"github.com/llm-d-incubation/loss-simulator/internal/engines/sweep"
	"github.com/llm-d-incubation/loss-simulator/internal/logger"
	"github.com/llm-d-incubation/loss-simulator/internal/metrics"
	"github.com/llm-d-incubation/loss-simulator/internal/store"
	"github.com/llm-d-incubation/loss-simulator/pkg/config"
)

var SweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Simulate a range of arrival rates",
	Long: `Run one trial per arrival rate from --min-rate to --max-rate and write a
comparison row per trial to the report file. The first row replaces the file.

With --metrics-bind-address the admission and trial metrics are served in
Prometheus format; --repeat-interval then reruns the sweep until interrupted.`,
	RunE: runSweep,
}

func init() {
	SweepCmd.Flags().Float64("min-rate", config.DefaultMinArrivalRate, "first arrival rate")
	SweepCmd.Flags().Float64("max-rate", config.DefaultMaxArrivalRate, "last arrival rate (inclusive)")
	SweepCmd.Flags().Float64("step", config.DefaultArrivalRateStep, "arrival rate increment")
	SweepCmd.Flags().String("report", config.DefaultReportPath, "report file, empty to skip")
	SweepCmd.Flags().String("db", "", "SQLite database that keeps every trial")
	SweepCmd.Flags().String("metrics-bind-address", "", "address of the metrics endpoint, e.g. :8080; empty disables it")
	SweepCmd.Flags().Duration("repeat-interval", 0, "rerun the sweep at this interval until interrupted")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []sweep.Option
	if cfg.Output.DBPath != "" {
		db, err := store.Open(cfg.Output.DBPath)
		if err != nil {
			return err
		}
		atexit.Register(func() {
			if err := db.Close(); err != nil {
				logger.Log.Errorw("Failed to close result store", "error", err)
			}
		})
		opts = append(opts, sweep.WithStore(db))
	}

	if addr := viper.GetString("metrics-bind-address"); addr != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		opts = append(opts, sweep.WithEmitter(metrics.InitMetricsAndEmitter(registry)))
		srv, err := startMetricsServer(ctx, addr, registry)
		if err != nil {
			return err
		}
		logger.Log.Infow("Serving metrics", "address", srv.Addr)
	}

	engine, err := sweep.NewEngine(cfg, opts...)
	if err != nil {
		return err
	}

	if interval := viper.GetDuration("repeat-interval"); interval > 0 {
		engine.StartSweepLoop(ctx, interval)
		return nil
	}

	result, err := engine.RunSweep(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "sweep %s: %d trials in %v", result.ID, len(result.Trials), result.Elapsed.Round(time.Millisecond))
	if cfg.Output.ReportPath != "" {
		fmt.Fprintf(out, ", report %s", cfg.Output.ReportPath)
	}
	fmt.Fprintln(out)
	if result.PersistErrors > 0 {
		warn.Fprintf(out, "%d result writes failed, see the log\n", result.PersistErrors)
	}
	printSummary(out, result.Summary())
	return nil
}
