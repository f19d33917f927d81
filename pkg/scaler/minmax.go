// Package scaler normalizes price series to a fixed range.
package scaler

import (
	"fmt"

	"github.com/raykavin/stockcast/pkg/core"
	"gonum.org/v1/gonum/floats"
)

// MinMax maps values linearly from the observed [Min, Max] onto [Low, High].
// The observed bounds are fixed by Fit and reused by every later transform.
type MinMax struct {
	Low  float64
	High float64

	min    float64
	max    float64
	fitted bool
}

// NewMinMax creates a scaler with the given feature range
func NewMinMax(low, high float64) (*MinMax, error) {
	if low >= high {
		return nil, fmt.Errorf("invalid feature range [%v, %v]", low, high)
	}
	return &MinMax{Low: low, High: high}, nil
}

// Fit records the minimum and maximum of values
func (s *MinMax) Fit(values []float64) error {
	if len(values) == 0 {
		return core.ErrEmptySeries
	}

	s.min = floats.Min(values)
	s.max = floats.Max(values)
	s.fitted = true
	return nil
}

// FitTransform fits the scaler on values and returns them normalized
func (s *MinMax) FitTransform(values []float64) ([]float64, error) {
	if err := s.Fit(values); err != nil {
		return nil, err
	}
	return s.Transform(values)
}

// Transform normalizes values with the fitted bounds
func (s *MinMax) Transform(values []float64) ([]float64, error) {
	if !s.fitted {
		return nil, core.ErrScalerNotFitted
	}

	out := make([]float64, len(values))
	copy(out, values)

	// x' = (x - min) * scale + low
	floats.AddConst(-s.min, out)
	floats.Scale(s.scale(), out)
	floats.AddConst(s.Low, out)
	return out, nil
}

// InverseTransform maps normalized values back to the original scale
func (s *MinMax) InverseTransform(values []float64) ([]float64, error) {
	if !s.fitted {
		return nil, core.ErrScalerNotFitted
	}

	out := make([]float64, len(values))
	copy(out, values)

	floats.AddConst(-s.Low, out)
	floats.Scale(1/s.scale(), out)
	floats.AddConst(s.min, out)
	return out, nil
}

// InverseValue maps a single normalized value back to the original scale
func (s *MinMax) InverseValue(value float64) (float64, error) {
	if !s.fitted {
		return 0, core.ErrScalerNotFitted
	}
	return (value-s.Low)/s.scale() + s.min, nil
}

// Bounds returns the fitted minimum and maximum
func (s *MinMax) Bounds() (minimum, maximum float64) {
	return s.min, s.max
}

// Fitted reports whether Fit has been called successfully
func (s *MinMax) Fitted() bool {
	return s.fitted
}

// scale is the multiplier applied after shifting by min. A constant series
// keeps a unit range so it maps onto Low instead of dividing by zero.
func (s *MinMax) scale() float64 {
	dataRange := s.max - s.min
	if dataRange == 0 {
		dataRange = 1
	}
	return (s.High - s.Low) / dataRange
}
