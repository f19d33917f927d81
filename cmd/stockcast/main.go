package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/raykavin/stockcast/internal/config"
	"github.com/raykavin/stockcast/pkg/logger"
	"github.com/raykavin/stockcast/pkg/logger/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const dateTimeLayout = "2006-01-02 15:04:05"

// Command line state shared by every subcommand
var (
	configFile string
	v          *viper.Viper
	cfg        *config.Config
	log        logger.Logger = logger.Nop()
)

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"file":         "data.file",
	"symbol":       "data.symbol",
	"limit":        "data.limit",
	"model":        "model.kind",
	"ridge":        "model.ridge",
	"time-step":    "model.time_step",
	"ratio":        "split.ratio",
	"horizon":      "forecast.horizon",
	"samples":      "bootstrap.samples",
	"storage":      "storage.driver",
	"storage-path": "storage.path",
	"output":       "output.csv",
	"progress":     "output.progress",
	"log-level":    "log.level",
	"json":         "log.json",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// newRootCmd builds the command tree on a fresh configuration
func newRootCmd() *cobra.Command {
	v = config.New()
	configFile = ""

	rootCmd := &cobra.Command{
		Use:               "stockcast",
		Short:             "Forecast closing prices from a historical price table",
		Version:           "1.0.0",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default ./stockcast.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json", false, "Log JSON lines instead of the console format")

	rootCmd.AddCommand(buildForecastCmd(), buildExploreCmd(), buildRunsCmd(), buildTuneCmd())
	return rootCmd
}

// setup binds the flags of the running command, loads the configuration and the logger
func setup(cmd *cobra.Command, _ []string) error {
	var bindErr error
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if key, ok := flagKeys[flag.Name]; ok && bindErr == nil {
			bindErr = v.BindPFlag(key, flag)
		}
	})
	if bindErr != nil {
		return bindErr
	}

	var err error
	cfg, err = config.Load(v, configFile)
	if err != nil {
		return err
	}

	adapter, err := zerolog.New(zerolog.Options{
		Level:          cfg.Log.Level,
		DateTimeLayout: dateTimeLayout,
		Colored:        cfg.Log.Colored,
		JSON:           cfg.Log.JSON,
		Output:         os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	log = adapter

	return nil
}

// addDataFlags registers the flags selecting the price table
func addDataFlags(flags *pflag.FlagSet) {
	flags.StringP("file", "f", "", "CSV price table with Open, High, Low, Close columns")
	flags.String("symbol", "", "Symbol shown in reports (default: file name)")
	flags.String("limit", "", "Keep only the trailing period (eg: 365d, 52w)")
}

// addStorageFlags registers the flags selecting the run storage
func addStorageFlags(flags *pflag.FlagSet) {
	flags.String("storage", "", "Run storage driver: memory, bunt or sqlite (empty disables storage)")
	flags.String("storage-path", config.DefaultStoragePath, "Run storage file")
}
