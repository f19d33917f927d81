// Package pipeline runs the full forecasting procedure over a price table:
// scale, split, window, fit, evaluate, roll forward, store and notify.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/raykavin/stockcast/pkg/core"
	"github.com/raykavin/stockcast/pkg/forecast"
	"github.com/raykavin/stockcast/pkg/logger"
	"github.com/raykavin/stockcast/pkg/metric"
	"github.com/raykavin/stockcast/pkg/model"
	"github.com/raykavin/stockcast/pkg/scaler"
	"github.com/raykavin/stockcast/pkg/window"
	"github.com/schollz/progressbar/v3"
)

const (
	defaultBootstrapSamples = 1000
	defaultConfidence       = 0.95
)

// Pipeline wires a trainer to the windowing and forecasting core
type Pipeline struct {
	settings core.Settings
	trainer  model.Trainer
	storage  core.RunStorage
	notifier core.Notifier
	logger   logger.Logger

	progress         bool
	bootstrapSamples int
	confidence       float64

	newID func() string
	now   func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithStorage persists every successful run
func WithStorage(storage core.RunStorage) Option {
	return func(p *Pipeline) {
		p.storage = storage
	}
}

// WithNotifier sends a run summary after every successful run
func WithNotifier(notifier core.Notifier) Option {
	return func(p *Pipeline) {
		p.notifier = notifier
	}
}

// WithLogger sets the logger, by default nothing is logged
func WithLogger(log logger.Logger) Option {
	return func(p *Pipeline) {
		p.logger = log
	}
}

// WithProgress shows progress bars while predicting windows and forecast steps
func WithProgress(enabled bool) Option {
	return func(p *Pipeline) {
		p.progress = enabled
	}
}

// WithBootstrap sets the resample count and confidence of the test RMSE interval.
// A sample count of zero disables the interval.
func WithBootstrap(samples int, confidence float64) Option {
	return func(p *Pipeline) {
		p.bootstrapSamples = samples
		p.confidence = confidence
	}
}

// WithClock overrides the time source used to stamp runs
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New validates settings and creates a pipeline
func New(settings core.Settings, trainer model.Trainer, options ...Option) (*Pipeline, error) {
	if settings.TimeStep <= 0 {
		return nil, fmt.Errorf("%w: %d", core.ErrInvalidTimeStep, settings.TimeStep)
	}
	if settings.Horizon <= 0 {
		return nil, fmt.Errorf("%w: %d", core.ErrInvalidHorizon, settings.Horizon)
	}
	if settings.TrainRatio <= 0 || settings.TrainRatio >= 1 {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidSplitRatio, settings.TrainRatio)
	}
	if trainer == nil {
		return nil, fmt.Errorf("%w: nil trainer", core.ErrUnknownModel)
	}

	p := &Pipeline{
		settings:         settings,
		trainer:          trainer,
		logger:           logger.Nop(),
		bootstrapSamples: defaultBootstrapSamples,
		confidence:       defaultConfidence,
		newID:            uuid.NewString,
		now:              time.Now,
	}

	for _, option := range options {
		option(p)
	}

	if p.bootstrapSamples > 0 && (p.confidence <= 0 || p.confidence >= 1) {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidConfidence, p.confidence)
	}

	return p, nil
}

// Settings returns the run settings
func (p *Pipeline) Settings() core.Settings {
	return p.settings
}

// Run executes the procedure on the close column of df
func (p *Pipeline) Run(ctx context.Context, df *core.Dataframe) (*Result, error) {
	closes := df.Close.Copy().Values()
	if len(closes) == 0 {
		return nil, core.ErrEmptySeries
	}

	w := p.settings.TimeStep
	log := p.logger.WithFields(map[string]any{
		"symbol":    df.Symbol,
		"model":     p.settings.Model,
		"time_step": w,
	})

	// the scaler is fitted once over the full history and reused for every inverse
	sc, err := scaler.NewMinMax(0, 1)
	if err != nil {
		return nil, err
	}
	scaled, err := sc.FitTransform(closes)
	if err != nil {
		return nil, err
	}

	train, test, err := window.Split(scaled, p.settings.TrainRatio)
	if err != nil {
		return nil, err
	}

	trainPairs := window.CreateDataset(train, w)
	testPairs := window.CreateDataset(test, w)
	if trainPairs.Len() == 0 || testPairs.Len() == 0 {
		return nil, fmt.Errorf("%w: %d train and %d test values cannot fill windows of %d",
			core.ErrInsufficientData, len(train), len(test), w)
	}

	log.Infof("Split %d rows into %d train / %d test pairs", len(scaled), trainPairs.Len(), testPairs.Len())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	predictor, err := p.trainer.Fit(trainPairs)
	if err != nil {
		return nil, fmt.Errorf("fit %s model: %w", p.settings.Model, err)
	}

	result := &Result{
		Symbol:    df.Symbol,
		Settings:  p.settings,
		Actual:    closes,
		Times:     df.Time,
		TrainSize: len(train),
	}

	result.Train, err = p.evaluate(ctx, "train", predictor, trainPairs, sc, 0)
	if err != nil {
		return nil, err
	}

	result.Test, err = p.evaluate(ctx, "test", predictor, testPairs, sc, len(train))
	if err != nil {
		return nil, err
	}

	if p.bootstrapSamples > 0 {
		result.TestInterval = metric.Bootstrap(result.Test.Residuals, metric.RootMeanSquare,
			p.bootstrapSamples, p.confidence)
	}

	log.WithFields(map[string]any{
		"train_rmse": result.Train.RMSE,
		"test_rmse":  result.Test.RMSE,
	}).Info("Model evaluated")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.ForecastScaled, err = p.forecast(predictor, scaled[len(scaled)-w:], log)
	if err != nil {
		return nil, err
	}

	result.Forecast, err = sc.InverseTransform(result.ForecastScaled)
	if err != nil {
		return nil, err
	}

	result.Run = p.record(result, sc)

	if p.storage != nil {
		if err := p.storage.SaveRun(result.Run); err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
		log.WithField("run", result.Run.ID).Debug("Run stored")
	}

	if p.notifier != nil {
		p.notifier.Notify(result.Message())
	}

	return result, nil
}

// evaluate predicts every window of pairs and scores the predictions on the price scale.
// offset is the position of pairs' source slice inside the full series.
func (p *Pipeline) evaluate(ctx context.Context, name string, predictor core.BatchPredictor,
	pairs window.Pairs, sc *scaler.MinMax, offset int) (Evaluation, error) {

	scaledPredictions, err := p.predict(ctx, name, predictor, pairs.Inputs())
	if err != nil {
		return Evaluation{}, fmt.Errorf("predict %s: %w", name, err)
	}

	predictions, err := sc.InverseTransform(scaledPredictions)
	if err != nil {
		return Evaluation{}, err
	}

	targets, err := sc.InverseTransform(pairs.Targets())
	if err != nil {
		return Evaluation{}, err
	}

	rmse, err := metric.RMSE(targets, predictions)
	if err != nil {
		return Evaluation{}, err
	}

	residuals, err := metric.Residuals(targets, predictions)
	if err != nil {
		return Evaluation{}, err
	}

	return Evaluation{
		Offset:      window.TargetIndex(offset, p.settings.TimeStep, 0),
		Pairs:       pairs.Len(),
		Predictions: predictions,
		Targets:     targets,
		Residuals:   residuals,
		RMSE:        rmse,
	}, nil
}

// predict runs the whole batch at once, or window by window behind a progress bar
func (p *Pipeline) predict(ctx context.Context, name string, predictor core.BatchPredictor,
	windows [][]float64) ([]float64, error) {

	if !p.progress {
		return predictor.PredictBatch(windows)
	}

	bar := progressbar.Default(int64(len(windows)), "predict "+name)
	out := make([]float64, len(windows))
	for i, w := range windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		value, err := predictor.Predict(w)
		if err != nil {
			return nil, err
		}
		out[i] = value

		if err := bar.Add(1); err != nil {
			p.logger.Warnf("update progressbar fail: %v", err)
		}
	}

	return out, nil
}

// forecast rolls the predictor forward from the last known window
func (p *Pipeline) forecast(predictor core.Predictor, seed []float64, log logger.Logger) ([]float64, error) {
	options := []forecast.Option{
		forecast.WithStepHook(func(step int, value float64, _ *forecast.Buffer) {
			log.Tracef("Forecast step %d: %.6f", step+1, value)
		}),
	}

	if p.progress {
		bar := progressbar.Default(int64(p.settings.Horizon), "forecast")
		options = append(options, forecast.WithStepHook(func(int, float64, *forecast.Buffer) {
			if err := bar.Add(1); err != nil {
				p.logger.Warnf("update progressbar fail: %v", err)
			}
		}))
	}

	return forecast.New(predictor, p.settings.TimeStep, options...).Forecast(seed, p.settings.Horizon)
}

// record builds the persisted view of a result
func (p *Pipeline) record(result *Result, sc *scaler.MinMax) *core.Run {
	low, high := sc.Bounds()

	return &core.Run{
		ID:         p.newID(),
		CreatedAt:  p.now().UTC(),
		Source:     p.settings.Source,
		Model:      p.settings.Model,
		TimeStep:   p.settings.TimeStep,
		Horizon:    p.settings.Horizon,
		TrainRatio: p.settings.TrainRatio,
		Rows:       len(result.Actual),
		TrainPairs: result.Train.Pairs,
		TestPairs:  result.Test.Pairs,
		TrainRMSE:  result.Train.RMSE,
		TestRMSE:   result.Test.RMSE,
		ScaleMin:   low,
		ScaleMax:   high,
		Forecast:   result.Forecast,
	}
}
