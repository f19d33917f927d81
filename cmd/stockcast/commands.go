package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/raykavin/stockcast/pkg/core"
	"github.com/raykavin/stockcast/pkg/feed"
	"github.com/raykavin/stockcast/pkg/model"
	"github.com/raykavin/stockcast/pkg/notification"
	"github.com/raykavin/stockcast/pkg/optimizer"
	"github.com/raykavin/stockcast/pkg/pipeline"
	"github.com/raykavin/stockcast/pkg/report"
	"github.com/raykavin/stockcast/pkg/storage"
	"github.com/spf13/cobra"
)

var (
	filterSource string
	filterModel  string
)

func buildForecastCmd() *cobra.Command {
	forecastCmd := &cobra.Command{
		Use:   "forecast",
		Short: "Fit a model on the closing prices and forecast the next days",
		RunE:  runForecast,
	}

	flags := forecastCmd.Flags()
	addDataFlags(flags)
	addStorageFlags(flags)
	flags.StringP("model", "m", "linear", fmt.Sprintf("Predictor %v", model.Kinds()))
	flags.Float64("ridge", model.DefaultRidge, "Ridge penalty of the linear model")
	flags.IntP("time-step", "w", 100, "Window length")
	flags.Float64("ratio", 0.7, "Share of rows used for training")
	flags.IntP("horizon", "n", 30, "Days to forecast")
	flags.Int("samples", 1000, "Bootstrap resamples of the test RMSE (0 disables)")
	flags.StringP("output", "o", "", "Write aligned actual, prediction and forecast columns to a CSV file")
	flags.Bool("progress", false, "Show progress bars")

	return forecastCmd
}

func buildExploreCmd() *cobra.Command {
	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "Describe the price table",
		RunE:  runExplore,
	}

	addDataFlags(exploreCmd.Flags())
	return exploreCmd
}

func buildRunsCmd() *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored forecasting runs",
		RunE:  runRuns,
	}

	flags := runsCmd.Flags()
	addStorageFlags(flags)
	flags.StringVar(&filterSource, "source", "", "Only runs of this price table")
	flags.StringVar(&filterModel, "kind", "", "Only runs of this model")
	flags.Duration("since", 0, "Only runs created within this duration")

	return runsCmd
}

func buildTuneCmd() *cobra.Command {
	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "Search model, window length and ridge for the lowest test RMSE",
		RunE:  runTune,
	}

	flags := tuneCmd.Flags()
	addDataFlags(flags)
	flags.Float64("ratio", 0.7, "Share of rows used for training")
	flags.StringSlice("models", []string{"linear", "mean", "last"}, "Models to try")
	flags.IntSlice("time-steps", []int{20, 50, 100}, "Window lengths to try")
	flags.Float64Slice("ridges", []float64{model.DefaultRidge, 1e-2}, "Ridge penalties to try with the linear model")
	flags.Int("parallelism", 2, "Parallel evaluations")
	flags.Int("top", 10, "Rows to show (0 shows all)")

	return tuneCmd
}

func runForecast(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	df, err := loadDataframe()
	if err != nil {
		return err
	}

	settings := cfg.Settings()
	trainer, err := model.NewTrainer(settings.Model, cfg.Model.Ridge)
	if err != nil {
		return err
	}

	options := []pipeline.Option{
		pipeline.WithLogger(log),
		pipeline.WithProgress(cfg.Output.Progress),
		pipeline.WithBootstrap(cfg.Bootstrap.Samples, cfg.Bootstrap.Confidence),
	}

	if cfg.Storage.Driver != "" {
		runStorage, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
		if err != nil {
			return err
		}
		defer runStorage.Close()
		options = append(options, pipeline.WithStorage(runStorage))
	}

	notifier, err := buildNotifier()
	if err != nil {
		return err
	}
	if notifier != nil {
		options = append(options, pipeline.WithNotifier(notifier))
	}

	p, err := pipeline.New(settings, trainer, options...)
	if err != nil {
		return err
	}

	result, err := p.Run(cmd.Context(), df)
	if err != nil {
		return err
	}

	if err := report.Summary(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	if cfg.Output.CSV != "" {
		if err := report.WriteCSV(cfg.Output.CSV, result); err != nil {
			return err
		}
		log.WithField("file", cfg.Output.CSV).Info("Forecast written")
	}

	return nil
}

func runExplore(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	df, err := loadDataframe()
	if err != nil {
		return err
	}

	return report.Explore(cmd.OutOrStdout(), df)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	if cfg.Storage.Driver == "" {
		return errors.New("no storage configured, use --storage")
	}

	runStorage, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer runStorage.Close()

	var filters []core.RunFilter
	if filterSource != "" {
		filters = append(filters, core.WithSource(filterSource))
	}
	if filterModel != "" {
		filters = append(filters, core.WithModel(filterModel))
	}
	if since, _ := cmd.Flags().GetDuration("since"); since > 0 {
		filters = append(filters, core.WithCreatedAfter(time.Now().Add(-since)))
	}

	runs, err := runStorage.Runs(filters...)
	if err != nil {
		return err
	}

	report.Runs(cmd.OutOrStdout(), runs)
	return nil
}

func runTune(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	df, err := loadDataframe()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	models, _ := flags.GetStringSlice("models")
	steps, _ := flags.GetIntSlice("time-steps")
	ridges, _ := flags.GetFloat64Slice("ridges")
	parallelism, _ := flags.GetInt("parallelism")
	top, _ := flags.GetInt("top")

	search, err := optimizer.NewGridSearch(cfg.Settings(), optimizer.NewConfig().
		WithModels(models...).
		WithTimeSteps(steps...).
		WithRidges(ridges...).
		WithParallelism(parallelism).
		WithLogger(log))
	if err != nil {
		return err
	}

	scores, err := search.Optimize(cmd.Context(), df)
	if err != nil {
		return err
	}

	optimizer.PrintResults(cmd.OutOrStdout(), scores, top)
	return nil
}

// loadDataframe reads the configured price table
func loadDataframe() (*core.Dataframe, error) {
	var options []feed.Option
	if cfg.Data.Symbol != "" {
		options = append(options, feed.WithSymbol(cfg.Data.Symbol))
	}

	csvFeed, err := feed.NewCSVFeed(cfg.Data.File, options...)
	if err != nil {
		return nil, err
	}

	if cfg.Data.Limit != "" {
		if csvFeed, err = csvFeed.Limit(cfg.Data.Limit); err != nil {
			return nil, err
		}
	}

	log.WithFields(map[string]any{
		"file":    cfg.Data.File,
		"rows":    len(csvFeed.Candles),
		"skipped": csvFeed.Skipped,
	}).Info("Price table loaded")

	return csvFeed.Dataframe(), nil
}

// buildNotifier returns the configured notifiers, or nil when none is enabled
func buildNotifier() (core.Notifier, error) {
	var group notification.Group

	if cfg.Telegram.Enabled {
		telegram, err := notification.NewTelegram(cfg.Telegram.Token, notification.WithUsers(cfg.Telegram.Users...))
		if err != nil {
			return nil, err
		}
		group = append(group, telegram)
	}

	if cfg.Mail.Enabled {
		group = append(group, notification.NewMail(notification.MailParams{
			SMTPServerAddress: cfg.Mail.Server,
			SMTPServerPort:    cfg.Mail.Port,
			From:              cfg.Mail.From,
			To:                cfg.Mail.To,
			Password:          cfg.Mail.Password,
		}))
	}

	if len(group) == 0 {
		return nil, nil
	}
	return group, nil
}
