// Package indicator wraps the go-talib studies used when exploring a price table.
package indicator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// SMA calculates Simple Moving Average
func SMA(input []float64, period int) []float64 {
	return talib.Sma(input, period)
}

// EMA calculates Exponential Moving Average
func EMA(input []float64, period int) []float64 {
	return talib.Ema(input, period)
}

// RSI calculates Relative Strength Index
func RSI(input []float64, period int) []float64 {
	return talib.Rsi(input, period)
}

// Latest returns the newest value of a study, or NaN when the input is shorter than the period
// and the study has not warmed up yet
func Latest(study func([]float64, int) []float64, input []float64, period int) float64 {
	if period <= 0 || len(input) < period+1 {
		return math.NaN()
	}

	values := study(input, period)
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}
