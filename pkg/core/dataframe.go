package core

import (
	"math"
	"time"
)

// Dataframe is a column view over a chronologically ordered set of candles
type Dataframe struct {
	Symbol string

	Open   Series[float64]
	High   Series[float64]
	Low    Series[float64]
	Close  Series[float64]
	Volume Series[float64]

	Time []time.Time

	// Extra numeric columns keyed by header name
	Metadata map[string]Series[float64]
}

// NewDataframe builds a dataframe from candles, preserving their order
func NewDataframe(symbol string, candles []Candle) *Dataframe {
	df := &Dataframe{
		Symbol:   symbol,
		Open:     make(Series[float64], 0, len(candles)),
		High:     make(Series[float64], 0, len(candles)),
		Low:      make(Series[float64], 0, len(candles)),
		Close:    make(Series[float64], 0, len(candles)),
		Volume:   make(Series[float64], 0, len(candles)),
		Time:     make([]time.Time, 0, len(candles)),
		Metadata: make(map[string]Series[float64]),
	}

	for _, candle := range candles {
		for key := range candle.Metadata {
			if _, ok := df.Metadata[key]; !ok {
				df.Metadata[key] = make(Series[float64], 0, len(candles))
			}
		}
	}

	for _, candle := range candles {
		df.Open = append(df.Open, candle.Open)
		df.High = append(df.High, candle.High)
		df.Low = append(df.Low, candle.Low)
		df.Close = append(df.Close, candle.Close)
		df.Volume = append(df.Volume, candle.Volume)
		df.Time = append(df.Time, candle.Time)

		// every metadata column has one value per row, NaN where a candle lacks it
		for key, column := range df.Metadata {
			value, ok := candle.Metadata[key]
			if !ok {
				value = math.NaN()
			}
			df.Metadata[key] = append(column, value)
		}
	}

	return df
}

// Len returns the number of rows
func (df *Dataframe) Len() int {
	return len(df.Close)
}

// Column returns an OHLCV column by its name
func (df *Dataframe) Column(name string) (Series[float64], bool) {
	switch name {
	case "Open":
		return df.Open, true
	case "High":
		return df.High, true
	case "Low":
		return df.Low, true
	case "Close":
		return df.Close, true
	case "Volume":
		return df.Volume, true
	}

	values, ok := df.Metadata[name]
	return values, ok
}

// TimeAt returns the timestamp of row i, or the zero time when the input had no dates
// or i is past the end of the frame
func (df *Dataframe) TimeAt(i int) time.Time {
	if i < 0 || i >= len(df.Time) {
		return time.Time{}
	}
	return df.Time[i]
}
