package pipeline

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/raykavin/stockcast/pkg/core"
	"github.com/raykavin/stockcast/pkg/model"
	"github.com/raykavin/stockcast/pkg/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	runs []*core.Run
	err  error
}

func (m *memoryStorage) SaveRun(run *core.Run) error {
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *memoryStorage) Runs(...core.RunFilter) ([]*core.Run, error) {
	return m.runs, nil
}

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(message string) {
	r.messages = append(r.messages, message)
}

func dataframe(n int) *core.Dataframe {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	candles := make([]core.Candle, n)
	for i := range candles {
		price := 200 + 20*math.Sin(float64(i)/8) + float64(i)/10
		candles[i] = core.Candle{
			Symbol: "TSLA",
			Time:   start.AddDate(0, 0, i),
			Open:   price - 1,
			High:   price + 2,
			Low:    price - 2,
			Close:  price,
		}
	}
	return core.NewDataframe("TSLA", candles)
}

func settings() core.Settings {
	return core.Settings{
		Source:     "tsla.csv",
		Model:      "linear",
		TimeStep:   20,
		Horizon:    10,
		TrainRatio: 0.7,
	}
}

func TestPipeline_Run(t *testing.T) {
	storage := &memoryStorage{}
	notifier := &recordingNotifier{}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	p, err := New(settings(), model.LinearTrainer{Ridge: model.DefaultRidge}, WithStorage(storage), WithNotifier(notifier),
		WithBootstrap(200, 0.95), WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	df := dataframe(300)
	result, err := p.Run(context.Background(), df)
	require.NoError(t, err)

	assert.Equal(t, 210, result.TrainSize)
	assert.Equal(t, 210-20-1, result.Train.Pairs)
	assert.Equal(t, 90-20-1, result.Test.Pairs)
	assert.Equal(t, 20, result.Train.Offset)
	assert.Equal(t, 230, result.Test.Offset)
	assert.Len(t, result.Forecast, 10)
	assert.Len(t, result.ForecastScaled, 10)

	// the targets are the actual closes at the aligned positions
	for i, target := range result.Test.Targets {
		assert.InDelta(t, df.Close[result.Test.Offset+i], target, 1e-9)
	}

	// a smooth series is easy for an autoregressive linear model
	assert.Less(t, result.Train.RMSE, 1.0)
	assert.Less(t, result.Test.RMSE, 1.0)
	assert.LessOrEqual(t, result.TestInterval.Lower, result.TestInterval.Upper)

	require.Len(t, storage.runs, 1)
	run := storage.runs[0]
	assert.Equal(t, result.Run, run)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, now, run.CreatedAt)
	assert.Equal(t, "tsla.csv", run.Source)
	assert.Equal(t, 300, run.Rows)
	assert.Equal(t, result.Forecast, run.Forecast)

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "TSLA")
}

func TestPipeline_LastModelForecastsLastClose(t *testing.T) {
	s := settings()
	s.Model = "last"

	p, err := New(s, model.LastTrainer{}, WithBootstrap(0, 0))
	require.NoError(t, err)

	df := dataframe(150)
	result, err := p.Run(context.Background(), df)
	require.NoError(t, err)

	last := df.Close.Last(0)
	for _, value := range result.Forecast {
		assert.InDelta(t, last, value, 1e-9)
	}
	assert.Equal(t, 0.0, result.TestInterval.Upper)
}

func TestPipeline_Rows(t *testing.T) {
	p, err := New(settings(), model.MeanTrainer{}, WithBootstrap(0, 0))
	require.NoError(t, err)

	df := dataframe(120)
	result, err := p.Run(context.Background(), df)
	require.NoError(t, err)

	rows := result.Rows()
	require.Len(t, rows, 130)

	for i, row := range rows {
		assert.Equal(t, i, row.Index)
		if i < 120 {
			assert.Equal(t, df.Close[i], row.Actual)
			assert.True(t, math.IsNaN(row.Forecast))
		} else {
			assert.True(t, math.IsNaN(row.Actual))
			assert.Equal(t, result.Forecast[i-120], row.Forecast)
			assert.NotEqual(t, time.Saturday, row.Time.Weekday())
			assert.NotEqual(t, time.Sunday, row.Time.Weekday())
			assert.True(t, row.Time.After(df.Time[119]))
		}
	}

	assert.True(t, math.IsNaN(rows[19].TrainPredict))
	assert.False(t, math.IsNaN(rows[20].TrainPredict))
	assert.Equal(t, result.Train.Predictions[0], rows[20].TrainPredict)
	trainSize := window.TrainSize(120, 0.7)
	assert.Equal(t, result.Test.Predictions[0], rows[trainSize+20].TestPredict)
	assert.True(t, math.IsNaN(rows[trainSize+19].TestPredict))
}

func TestPipeline_InsufficientData(t *testing.T) {
	p, err := New(settings(), model.LinearTrainer{Ridge: model.DefaultRidge})
	require.NoError(t, err)

	// 60 rows leave 18 test values, too few for windows of 20
	_, err = p.Run(context.Background(), dataframe(60))
	require.ErrorIs(t, err, core.ErrInsufficientData)

	_, err = p.Run(context.Background(), core.NewDataframe("X", nil))
	require.ErrorIs(t, err, core.ErrEmptySeries)
}

func TestPipeline_StorageFailure(t *testing.T) {
	failure := errors.New("disk full")
	p, err := New(settings(), model.LinearTrainer{Ridge: model.DefaultRidge}, WithStorage(&memoryStorage{err: failure}))
	require.NoError(t, err)

	_, err = p.Run(context.Background(), dataframe(200))
	require.ErrorIs(t, err, failure)
}

func TestPipeline_Cancelled(t *testing.T) {
	p, err := New(settings(), model.LinearTrainer{Ridge: model.DefaultRidge})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Run(ctx, dataframe(200))
	require.ErrorIs(t, err, context.Canceled)
}

func TestNew_InvalidSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*core.Settings)
		err    error
	}{
		{"time step", func(s *core.Settings) { s.TimeStep = 0 }, core.ErrInvalidTimeStep},
		{"horizon", func(s *core.Settings) { s.Horizon = -1 }, core.ErrInvalidHorizon},
		{"ratio", func(s *core.Settings) { s.TrainRatio = 1 }, core.ErrInvalidSplitRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settings()
			tt.mutate(&s)
			_, err := New(s, model.LinearTrainer{Ridge: model.DefaultRidge})
			require.ErrorIs(t, err, tt.err)
		})
	}

	_, err := New(settings(), nil)
	require.ErrorIs(t, err, core.ErrUnknownModel)

	for _, confidence := range []float64{0, 1, 1.5, -0.2} {
		_, err = New(settings(), model.MeanTrainer{}, WithBootstrap(100, confidence))
		require.ErrorIs(t, err, core.ErrInvalidConfidence, confidence)
	}

	_, err = New(settings(), model.MeanTrainer{}, WithBootstrap(0, 5))
	require.NoError(t, err)
}

func TestResult_ForecastTimesUndated(t *testing.T) {
	r := &Result{Times: []time.Time{{}, {}}, Forecast: []float64{1, 2}}
	for _, day := range r.ForecastTimes() {
		assert.True(t, day.IsZero())
	}
}

func TestNextTradingDay(t *testing.T) {
	friday := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), nextTradingDay(friday))
}
