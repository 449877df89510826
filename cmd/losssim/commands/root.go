package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tebeka/atexit"

	"github.com/llm-d-incubation/loss-simulator/internal/logger"
	"github.com/llm-d-incubation/loss-simulator/pkg/config"
)

// environment variables override flags' defaults, e.g. LOSSSIM_CHANNELS=8
const envPrefix = "LOSSSIM"

var (
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "losssim",
	Short: "Loss system simulator",
	Long: `losssim estimates the performance of a loss system (c identical channels,
no waiting room) twice: with the Erlang loss formulas and with a concurrent
wall-clock simulation, and writes one comparison row per arrival rate.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		bindFlags(cmd.Flags())
		opts := logger.Options{Level: viper.GetString("log-level"), Output: cmd.ErrOrStderr()}
		if _, err := logger.InitLogger(opts); err != nil {
			return fmt.Errorf("unable to initialize logger: %w", err)
		}
		atexit.Register(logger.SyncLogger)
		return nil
	},
}

// Execute runs the command selected by the process arguments.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML simulation config (defaults apply to missing fields)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file of environment variables loaded at startup")

	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error (default from LOG_LEVEL)")

	rootCmd.PersistentFlags().Int("channels", config.DefaultChannels, "number of service channels")
	rootCmd.PersistentFlags().Float64("service-rate", config.DefaultServiceRate, "service rate of one channel")
	rootCmd.PersistentFlags().Int("requests", config.DefaultRequests, "requests emitted per trial")
	rootCmd.PersistentFlags().String("timing", config.TimingDeterministic, "timing mode: deterministic or exponential")
	rootCmd.PersistentFlags().Duration("time-unit", config.DefaultTimeUnit, "wall-clock length of one model time unit")
	rootCmd.PersistentFlags().Uint64("seed", 0, "seed of the exponential timing mode")
	rootCmd.PersistentFlags().Duration("poll-interval", config.DefaultPollInterval, "interval between drain polls")
	rootCmd.PersistentFlags().Duration("settle-period", config.DefaultSettlePeriod, "quiet period confirmed after drain")
	rootCmd.PersistentFlags().Duration("drain-timeout", config.DefaultDrainTimeout, "upper bound on waiting for drain")

	rootCmd.AddCommand(RunCmd)
	rootCmd.AddCommand(SweepCmd)
	rootCmd.AddCommand(AnalyzeCmd)
	rootCmd.AddCommand(CompareCmd)
}

func initConfig() {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Log.Warnw("Failed to load env file", "path", envFile, "error", err)
	}
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// bindFlags makes every flag of the set readable through viper under its own name.
func bindFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "env-file" {
			return
		}
		_ = viper.BindPFlag(f.Name, f)
	})
}

// loadConfig builds the simulation config: defaults, then the config file,
// then flags and LOSSSIM_ environment variables that were set explicitly.
func loadConfig() (*config.SimulationConfig, error) {
	cfg := config.NewDefaultConfig()
	if cfgFile != "" {
		var err error
		if cfg, err = config.LoadConfig(cfgFile); err != nil {
			return nil, err
		}
	}
	applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverrides(cfg *config.SimulationConfig) {
	if viper.IsSet("channels") {
		cfg.System.Channels = viper.GetInt("channels")
	}
	if viper.IsSet("service-rate") {
		cfg.System.ServiceRate = viper.GetFloat64("service-rate")
	}
	if viper.IsSet("requests") {
		cfg.Load.Requests = viper.GetInt("requests")
	}
	if viper.IsSet("arrival-rate") {
		cfg.Load.ArrivalRate = viper.GetFloat64("arrival-rate")
	}
	if viper.IsSet("min-rate") {
		cfg.Sweep.MinArrivalRate = viper.GetFloat64("min-rate")
	}
	if viper.IsSet("max-rate") {
		cfg.Sweep.MaxArrivalRate = viper.GetFloat64("max-rate")
	}
	if viper.IsSet("step") {
		cfg.Sweep.ArrivalRateStep = viper.GetFloat64("step")
	}
	if viper.IsSet("timing") {
		cfg.Timing.Mode = viper.GetString("timing")
	}
	if viper.IsSet("time-unit") {
		cfg.Timing.Unit = viper.GetDuration("time-unit")
	}
	if viper.IsSet("seed") {
		cfg.Timing.Seed = viper.GetUint64("seed")
	}
	if viper.IsSet("poll-interval") {
		cfg.Drain.PollInterval = viper.GetDuration("poll-interval")
	}
	if viper.IsSet("settle-period") {
		cfg.Drain.SettlePeriod = viper.GetDuration("settle-period")
	}
	if viper.IsSet("drain-timeout") {
		cfg.Drain.Timeout = viper.GetDuration("drain-timeout")
	}
	if viper.IsSet("report") {
		cfg.Output.ReportPath = viper.GetString("report")
	}
	if viper.IsSet("db") {
		cfg.Output.DBPath = viper.GetString("db")
	}
}
