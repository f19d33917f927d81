// Package forecast rolls a one-step predictor forward to produce multi-step forecasts.
package forecast

import (
	"fmt"

	"github.com/raykavin/stockcast/pkg/core"
)

// StepHook is called after each forecast step with the step index (0-based),
// the predicted value and the buffer already updated with it
type StepHook func(step int, value float64, buf *Buffer)

// Forecaster performs autoregressive rollout: every prediction is fed back as
// the newest input of the next one, so errors compound over the horizon.
type Forecaster struct {
	predictor core.Predictor
	timeStep  int
	hooks     []StepHook
}

// Option configures a Forecaster
type Option func(*Forecaster)

// WithStepHook registers a callback observing every step
func WithStepHook(hook StepHook) Option {
	return func(f *Forecaster) {
		f.hooks = append(f.hooks, hook)
	}
}

// New creates a forecaster feeding windows of timeStep values to predictor
func New(predictor core.Predictor, timeStep int, options ...Option) *Forecaster {
	f := &Forecaster{
		predictor: predictor,
		timeStep:  timeStep,
	}

	for _, option := range options {
		option(f)
	}

	return f
}

// TimeStep returns the window length the forecaster expects
func (f *Forecaster) TimeStep() int {
	return f.timeStep
}

// Forecast seeds a buffer with the last known window and predicts horizon values ahead
func (f *Forecaster) Forecast(seed []float64, horizon int) ([]float64, error) {
	buf, err := NewBuffer(seed, f.timeStep)
	if err != nil {
		return nil, err
	}
	return f.Run(buf, horizon)
}

// Run predicts horizon values, mutating buf in place. A failing predictor aborts
// the run and its error is returned as is.
func (f *Forecaster) Run(buf *Buffer, horizon int) ([]float64, error) {
	if buf == nil || buf.Len() != f.timeStep {
		got := 0
		if buf != nil {
			got = buf.Len()
		}
		return nil, fmt.Errorf("%w: expected %d, got %d", core.ErrInvalidBufferLength, f.timeStep, got)
	}

	if horizon <= 0 {
		return nil, fmt.Errorf("%w: %d", core.ErrInvalidHorizon, horizon)
	}

	output := make([]float64, 0, horizon)
	for step := 0; step < horizon; step++ {
		value, err := f.predictor.Predict(buf.Values())
		if err != nil {
			return nil, err
		}

		output = append(output, value)
		buf.Push(value)

		for _, hook := range f.hooks {
			hook(step, value, buf)
		}
	}

	return output, nil
}
