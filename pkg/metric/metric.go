// Package metric scores predictions against observed prices.
package metric

import (
	"fmt"
	"math"
	"sort"

	"github.com/raykavin/stockcast/pkg/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func sameSize(actual, predicted []float64) error {
	if len(actual) != len(predicted) {
		return fmt.Errorf("%w: %d actual, %d predicted", core.ErrMismatchedSeriesSize, len(actual), len(predicted))
	}
	if len(actual) == 0 {
		return core.ErrEmptySeries
	}
	return nil
}

// RMSE is the root mean squared error
func RMSE(actual, predicted []float64) (float64, error) {
	if err := sameSize(actual, predicted); err != nil {
		return 0, err
	}
	return floats.Distance(actual, predicted, 2) / math.Sqrt(float64(len(actual))), nil
}

// MSE is the mean squared error
func MSE(actual, predicted []float64) (float64, error) {
	rmse, err := RMSE(actual, predicted)
	return rmse * rmse, err
}

// MAE is the mean absolute error
func MAE(actual, predicted []float64) (float64, error) {
	if err := sameSize(actual, predicted); err != nil {
		return 0, err
	}
	return floats.Distance(actual, predicted, 1) / float64(len(actual)), nil
}

// Residuals returns actual - predicted element-wise
func Residuals(actual, predicted []float64) ([]float64, error) {
	if err := sameSize(actual, predicted); err != nil {
		return nil, err
	}
	out := make([]float64, len(actual))
	floats.SubTo(out, actual, predicted)
	return out, nil
}

// RootMeanSquare of residuals, the bootstrap measure for RMSE
func RootMeanSquare(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Norm(values, 2) / math.Sqrt(float64(len(values)))
}

// Mean calculates the arithmetic mean of the values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Description summarizes a column the way a dataframe describe() does
type Description struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Describe computes count, mean, sample standard deviation, extremes and quartiles
func Describe(values []float64) Description {
	if len(values) == 0 {
		return Description{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) == 1 {
		std = 0
	}

	return Description{
		Count: len(sorted),
		Mean:  mean,
		Std:   std,
		Min:   sorted[0],
		Q25:   stat.Quantile(0.25, stat.LinInterp, sorted, nil),
		Q50:   stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		Q75:   stat.Quantile(0.75, stat.LinInterp, sorted, nil),
		Max:   sorted[len(sorted)-1],
	}
}
