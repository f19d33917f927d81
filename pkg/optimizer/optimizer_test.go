package optimizer

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/raykavin/stockcast/pkg/core"
	"github.com/raykavin/stockcast/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineFrame(n int) *core.Dataframe {
	candles := make([]core.Candle, n)
	for i := range candles {
		price := 50 + 10*math.Sin(float64(i)/5)
		candles[i] = core.Candle{Open: price, High: price, Low: price, Close: price}
	}
	return core.NewDataframe("SINE", candles)
}

func base() core.Settings {
	return core.Settings{Horizon: 5, TrainRatio: 0.7}
}

func TestConfig_Builder(t *testing.T) {
	config := NewConfig().
		WithModels("linear", "mean").
		WithTimeSteps(5, 10).
		WithRidges(0.1, 0.01).
		WithParallelism(4)

	assert.Equal(t, []string{"linear", "mean"}, config.Models)
	assert.Equal(t, []int{5, 10}, config.TimeSteps)
	assert.Equal(t, []float64{0.1, 0.01}, config.Ridges)
	assert.Equal(t, 4, config.Parallelism)
}

func TestNewGridSearch_Validation(t *testing.T) {
	_, err := NewGridSearch(base(), nil)
	require.Error(t, err)

	_, err = NewGridSearch(base(), NewConfig().WithModels())
	require.Error(t, err)

	g, err := NewGridSearch(base(), NewConfig().WithParallelism(0))
	require.NoError(t, err)
	assert.Equal(t, 1, g.config.Parallelism)
}

func TestGridSearch_Candidates(t *testing.T) {
	g, err := NewGridSearch(base(), NewConfig().
		WithModels("linear", "last").
		WithTimeSteps(5, 10).
		WithRidges(model.DefaultRidge, 1))
	require.NoError(t, err)

	candidates := g.Candidates()
	assert.Len(t, candidates, 6)
	assert.Contains(t, candidates, Candidate{Model: "linear", TimeStep: 10, Ridge: 1})
	assert.Contains(t, candidates, Candidate{Model: "last", TimeStep: 5})
}

func TestGridSearch_CandidatesNormalizeModelNames(t *testing.T) {
	g, err := NewGridSearch(base(), NewConfig().
		WithModels("Linear", " MEAN ").
		WithTimeSteps(5).
		WithRidges(0.1, 1))
	require.NoError(t, err)

	assert.Equal(t, []Candidate{
		{Model: "linear", TimeStep: 5, Ridge: 0.1},
		{Model: "linear", TimeStep: 5, Ridge: 1},
		{Model: "mean", TimeStep: 5},
	}, g.Candidates())
}

func TestGridSearch_Optimize(t *testing.T) {
	g, err := NewGridSearch(base(), NewConfig().
		WithModels("linear", "mean", "last").
		WithTimeSteps(5, 100).
		WithRidges(model.DefaultRidge).
		WithParallelism(3))
	require.NoError(t, err)

	scores, err := g.Optimize(context.Background(), sineFrame(200))
	require.NoError(t, err)
	require.Len(t, scores, 6)

	best := scores[0]
	assert.Equal(t, "linear", best.Model)
	assert.Equal(t, 5, best.TimeStep)
	assert.NoError(t, best.Err)

	// 60 test rows cannot fill windows of 100
	for _, score := range scores[3:] {
		assert.Equal(t, 100, score.TimeStep)
		assert.ErrorIs(t, score.Err, core.ErrInsufficientData)
	}

	for i := 1; i < 3; i++ {
		assert.LessOrEqual(t, scores[i-1].TestRMSE, scores[i].TestRMSE)
	}

	var buf bytes.Buffer
	PrintResults(&buf, scores, 4)
	assert.Contains(t, buf.String(), "insufficient data")
	assert.Contains(t, buf.String(), "linear")
}

func TestGridSearch_UnknownModel(t *testing.T) {
	g, err := NewGridSearch(base(), NewConfig().WithModels("lstm").WithTimeSteps(5))
	require.NoError(t, err)

	_, err = g.Optimize(context.Background(), sineFrame(100))
	require.ErrorIs(t, err, core.ErrUnknownModel)
}

func TestGridSearch_Cancelled(t *testing.T) {
	g, err := NewGridSearch(base(), NewConfig().WithModels("mean").WithTimeSteps(5, 6))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = g.Optimize(ctx, sineFrame(100))
	require.ErrorIs(t, err, context.Canceled)
}
