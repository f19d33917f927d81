package feed

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/raykavin/stockcast/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const yahooCSV = `Date,Open,High,Low,Close,Volume,Dividends,Stock Splits
2021-01-05 00:00:00-05:00,723.66,740.84,719.20,735.11,32245200,0,0
2021-01-04 00:00:00-05:00,719.46,744.49,717.19,729.77,48638200,0,0
2021-01-06 00:00:00-05:00,758.49,774.00,749.10,755.98,44700000,0,0
2021-01-07 00:00:00-05:00,777.63,816.99,775.20,,51498900,0,0
2021-01-08 00:00:00-05:00,856.00,884.49,838.39,880.02,75055500,0,0
`

func TestNewCSVFeed(t *testing.T) {
	feed, err := NewCSVFeed(writeCSV(t, "tsla.csv", yahooCSV))
	require.NoError(t, err)

	assert.Equal(t, "TSLA", feed.Symbol)
	assert.Equal(t, 1, feed.Skipped)
	require.Len(t, feed.Candles, 4)

	// rows come back in chronological order
	assert.Equal(t, 729.77, feed.Candles[0].Close)
	assert.Equal(t, 735.11, feed.Candles[1].Close)
	assert.Equal(t, 880.02, feed.Candles[3].Close)
	assert.Equal(t, 48638200.0, feed.Candles[0].Volume)

	for _, candle := range feed.Candles {
		assert.True(t, candle.HasTime())
		assert.Empty(t, candle.Metadata, "corporate action columns must be dropped")
	}
}

func TestNewCSVFeed_Metadata(t *testing.T) {
	content := "date,open,high,low,close,adj close\n2021-01-04,1,2,0.5,1.5,1.4\n"
	feed, err := NewCSVFeed(writeCSV(t, "aapl.csv", content), WithSymbol("AAPL"))
	require.NoError(t, err)

	require.Len(t, feed.Candles, 1)
	assert.Equal(t, "AAPL", feed.Candles[0].Symbol)
	assert.Equal(t, map[string]float64{"adj close": 1.4}, feed.Candles[0].Metadata)
}

func TestNewCSVFeed_MissingColumn(t *testing.T) {
	_, err := NewCSVFeed(writeCSV(t, "bad.csv", "Date,Open,High,Low\n2021-01-04,1,2,3\n"))
	require.ErrorIs(t, err, core.ErrMissingColumn)
}

func TestNewCSVFeed_InvalidNumber(t *testing.T) {
	_, err := NewCSVFeed(writeCSV(t, "bad.csv", "Open,High,Low,Close\n1,2,3,abc\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestNewCSVFeed_Undated(t *testing.T) {
	feed, err := NewCSVFeed(writeCSV(t, "idx.csv", "Open,High,Low,Close\n1,2,0,1.5\n2,3,1,2.5\n"))
	require.NoError(t, err)
	require.Len(t, feed.Candles, 2)
	assert.False(t, feed.Candles[0].HasTime())

	_, err = feed.Limit("10d")
	require.ErrorIs(t, err, ErrUndatedFeed)
}

func TestCSVFeed_Limit(t *testing.T) {
	feed, err := NewCSVFeed(writeCSV(t, "tsla.csv", yahooCSV))
	require.NoError(t, err)

	_, err = feed.Limit("3d")
	require.NoError(t, err)

	require.Len(t, feed.Candles, 2)
	assert.Equal(t, 755.98, feed.Candles[0].Close)
	assert.Equal(t, 880.02, feed.Candles[1].Close)

	_, err = feed.Limit("three days")
	require.Error(t, err)
}

func TestCSVFeed_Dataframe(t *testing.T) {
	feed, err := NewCSVFeed(writeCSV(t, "tsla.csv", yahooCSV))
	require.NoError(t, err)

	df := feed.Dataframe()
	assert.Equal(t, 4, df.Len())
	assert.Equal(t, "TSLA", df.Symbol)
	assert.Equal(t, []float64{729.77, 735.11, 755.98, 880.02}, df.Close.Values())

	high, ok := df.Column("High")
	require.True(t, ok)
	assert.Equal(t, 744.49, high.Last(3))
}

func TestNewCSVFeed_UnparsableMetadataStaysAligned(t *testing.T) {
	content := "Date,Open,High,Low,Close,Adj Close\n" +
		"2021-01-04,1,2,0.5,1.5,10\n" +
		"2021-01-05,1,2,0.5,1.5,n/a\n" +
		"2021-01-06,1,2,0.5,1.5,30\n"

	feed, err := NewCSVFeed(writeCSV(t, "aapl.csv", content))
	require.NoError(t, err)
	require.Len(t, feed.Candles, 3)

	column, ok := feed.Dataframe().Column("Adj Close")
	require.True(t, ok)
	require.Len(t, column, 3)
	assert.Equal(t, 10.0, column[0])
	assert.True(t, math.IsNaN(column[1]))
	assert.Equal(t, 30.0, column[2])
}
