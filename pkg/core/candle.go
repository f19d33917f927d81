package core

import (
	"time"
)

// Candle is one trading day of OHLCV data
type Candle struct {
	Symbol string
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	// Additional numeric columns from CSV inputs
	Metadata map[string]float64
}

// HasTime reports whether the candle was read with a date column
func (c Candle) HasTime() bool { return !c.Time.IsZero() }

// IsEmpty checks if the candle contains no significant data
func (c Candle) IsEmpty() bool { return c.Close == 0 && c.Open == 0 && c.High == 0 && c.Low == 0 }

// Less orders candles chronologically
func (c Candle) Less(other Candle) bool {
	return c.Time.Before(other.Time)
}
