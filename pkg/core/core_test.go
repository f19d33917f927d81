package core

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeries(t *testing.T) {
	s := Series[float64]{1, 2, 3, 4}

	assert.Equal(t, 4, s.Length())
	assert.Equal(t, 4.0, s.Last(0))
	assert.Equal(t, 3.0, s.Last(1))
	assert.Equal(t, Series[float64]{3, 4}, s.LastValues(2))
	assert.Equal(t, s, s.LastValues(10))

	c := s.Copy()
	c[0] = 100
	assert.Equal(t, 1.0, s[0])
}

func TestNumDecPlaces(t *testing.T) {
	assert.Equal(t, int64(0), NumDecPlaces(12))
	assert.Equal(t, int64(3), NumDecPlaces(1.125))
}

func TestNewDataframe(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	df := NewDataframe("TSLA", []Candle{
		{Time: day, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10, Metadata: map[string]float64{"Adj Close": 1.4}},
		{Time: day.AddDate(0, 0, 1), Open: 1.5, High: 3, Low: 1, Close: 2.5, Volume: 20, Metadata: map[string]float64{"Adj Close": 2.4}},
	})

	assert.Equal(t, 2, df.Len())
	assert.Equal(t, Series[float64]{1.5, 2.5}, df.Close)
	assert.Equal(t, day, df.TimeAt(0))
	assert.True(t, df.TimeAt(5).IsZero())

	column, ok := df.Column("Adj Close")
	require.True(t, ok)
	assert.Equal(t, Series[float64]{1.4, 2.4}, column)

	column, ok = df.Column("Volume")
	require.True(t, ok)
	assert.Equal(t, Series[float64]{10, 20}, column)

	_, ok = df.Column("Dividends")
	assert.False(t, ok)
}

func TestNewDataframe_MetadataAligned(t *testing.T) {
	df := NewDataframe("X", []Candle{
		{Close: 1, Metadata: map[string]float64{"Adj Close": 0.9}},
		{Close: 2},
		{Close: 3, Metadata: map[string]float64{"Adj Close": 2.9, "Score": 7}},
	})

	adj, ok := df.Column("Adj Close")
	require.True(t, ok)
	require.Len(t, adj, 3)
	assert.Equal(t, 0.9, adj[0])
	assert.True(t, math.IsNaN(adj[1]))
	assert.Equal(t, 2.9, adj[2])

	score, ok := df.Column("Score")
	require.True(t, ok)
	require.Len(t, score, 3)
	assert.True(t, math.IsNaN(score[0]))
	assert.Equal(t, 7.0, score[2])
}

func TestCandle(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	a, b := Candle{Time: day, Close: 1}, Candle{Time: day.Add(time.Hour)}

	assert.True(t, a.Less(b))
	assert.True(t, a.HasTime())
	assert.False(t, Candle{}.HasTime())
	assert.True(t, b.IsEmpty())
	assert.False(t, a.IsEmpty())
}

func TestRunFilters(t *testing.T) {
	created := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	run := Run{Source: "tsla.csv", Model: "linear", CreatedAt: created}

	assert.True(t, WithSource("tsla.csv")(run))
	assert.False(t, WithSource("aapl.csv")(run))
	assert.True(t, WithModel("linear")(run))
	assert.False(t, WithModel("mean")(run))
	assert.True(t, WithCreatedAfter(created.Add(-time.Second))(run))
	assert.False(t, WithCreatedAfter(created)(run))
}

func TestDefaultSettings(t *testing.T) {
	assert.Equal(t, Settings{Model: "linear", TimeStep: 100, Horizon: 30, TrainRatio: 0.7}, DefaultSettings())
}
