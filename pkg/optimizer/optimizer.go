// Package optimizer searches model settings for the lowest test RMSE
package optimizer

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/raykavin/stockcast/pkg/core"
	"github.com/raykavin/stockcast/pkg/logger"
	"github.com/raykavin/stockcast/pkg/model"
	"github.com/raykavin/stockcast/pkg/pipeline"
)

// Candidate is one point of the search grid
type Candidate struct {
	Model    string
	TimeStep int
	Ridge    float64
}

// Score is the outcome of evaluating a candidate
type Score struct {
	Candidate
	TrainRMSE float64
	TestRMSE  float64
	Duration  time.Duration

	// Err is set when the candidate could not be evaluated on the data, eg: a window
	// longer than the test split
	Err error
}

// Config holds the grid and how it is evaluated
type Config struct {
	Models      []string
	TimeSteps   []int
	Ridges      []float64
	Parallelism int
	Logger      logger.Logger
}

// NewConfig creates a configuration searching the default settings only
func NewConfig() *Config {
	defaults := core.DefaultSettings()
	return &Config{
		Models:      []string{defaults.Model},
		TimeSteps:   []int{defaults.TimeStep},
		Ridges:      []float64{model.DefaultRidge},
		Parallelism: 1,
		Logger:      logger.Nop(),
	}
}

// WithModels sets the model kinds to try
func (c *Config) WithModels(models ...string) *Config {
	c.Models = models
	return c
}

// WithTimeSteps sets the window lengths to try
func (c *Config) WithTimeSteps(steps ...int) *Config {
	c.TimeSteps = steps
	return c
}

// WithRidges sets the ridge penalties tried by the linear model
func (c *Config) WithRidges(ridges ...float64) *Config {
	c.Ridges = ridges
	return c
}

// WithParallelism sets the number of parallel evaluations
func (c *Config) WithParallelism(n int) *Config {
	c.Parallelism = n
	return c
}

// WithLogger sets the logger
func (c *Config) WithLogger(log logger.Logger) *Config {
	c.Logger = log
	return c
}

// GridSearch evaluates every candidate of a Config on the same price table
type GridSearch struct {
	base   core.Settings
	config *Config
}

// NewGridSearch validates config; base supplies the split ratio and horizon
func NewGridSearch(base core.Settings, config *Config) (*GridSearch, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if len(config.Models) == 0 || len(config.TimeSteps) == 0 {
		return nil, fmt.Errorf("at least one model and one time step must be provided")
	}
	if config.Parallelism <= 0 {
		config.Parallelism = 1
	}
	if config.Logger == nil {
		config.Logger = logger.Nop()
	}

	return &GridSearch{base: base, config: config}, nil
}

// Candidates lists the grid; ridge penalties only multiply the linear model
func (g *GridSearch) Candidates() []Candidate {
	var candidates []Candidate
	for _, name := range g.config.Models {
		kind := string(model.ParseKind(name))
		ridges := []float64{0}
		if model.Kind(kind) == model.KindLinear && len(g.config.Ridges) > 0 {
			ridges = g.config.Ridges
		}

		for _, step := range g.config.TimeSteps {
			for _, ridge := range ridges {
				candidates = append(candidates, Candidate{Model: kind, TimeStep: step, Ridge: ridge})
			}
		}
	}
	return candidates
}

// Optimize evaluates every candidate and returns the scores, best test RMSE first.
// Candidates that do not fit the data are kept at the end with Err set.
func (g *GridSearch) Optimize(ctx context.Context, df *core.Dataframe) ([]*Score, error) {
	candidates := g.Candidates()
	g.config.Logger.Infof("Starting grid search with %d candidates", len(candidates))

	var (
		scores    = make([]*Score, 0, len(candidates))
		mutex     sync.Mutex
		wg        sync.WaitGroup
		errCh     = make(chan error, 1)
		semaphore = make(chan struct{}, g.config.Parallelism)
	)

	for i, candidate := range candidates {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case err := <-errCh:
			wg.Wait()
			return nil, err
		default:
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(index int, candidate Candidate) {
			defer wg.Done()
			defer func() { <-semaphore }()

			score, err := g.evaluate(ctx, df, candidate)
			if err != nil {
				select {
				case errCh <- fmt.Errorf("evaluate %+v: %w", candidate, err):
				default:
				}
				return
			}

			g.config.Logger.Debugf("Candidate %d/%d %+v: test RMSE %.4f", index+1, len(candidates),
				candidate, score.TestRMSE)

			mutex.Lock()
			scores = append(scores, score)
			mutex.Unlock()
		}(i, candidate)
	}

	wg.Wait()

	select {
	case err := <-errCh:
		return nil, err
	default:
	}

	slices.SortStableFunc(scores, compare)
	return scores, nil
}

func (g *GridSearch) evaluate(ctx context.Context, df *core.Dataframe, candidate Candidate) (*Score, error) {
	trainer, err := model.NewTrainer(candidate.Model, candidate.Ridge)
	if err != nil {
		return nil, err
	}

	settings := g.base
	settings.Model = candidate.Model
	settings.TimeStep = candidate.TimeStep

	p, err := pipeline.New(settings, trainer, pipeline.WithBootstrap(0, 0))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := p.Run(ctx, df)
	score := &Score{Candidate: candidate, Duration: time.Since(start)}

	switch {
	case errors.Is(err, core.ErrInsufficientData):
		score.Err = err
		return score, nil
	case err != nil:
		return nil, err
	}

	score.TrainRMSE = result.Train.RMSE
	score.TestRMSE = result.Test.RMSE
	return score, nil
}

// compare orders evaluated scores by test RMSE, then by the simpler candidate
func compare(a, b *Score) int {
	if (a.Err == nil) != (b.Err == nil) {
		if a.Err == nil {
			return -1
		}
		return 1
	}

	return cmp.Or(
		cmp.Compare(a.TestRMSE, b.TestRMSE),
		cmp.Compare(a.TimeStep, b.TimeStep),
		cmp.Compare(a.Model, b.Model),
		cmp.Compare(a.Ridge, b.Ridge),
	)
}
