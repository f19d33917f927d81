package scaler

import (
	"testing"

	"github.com/raykavin/stockcast/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinMax_FitTransform(t *testing.T) {
	s, err := NewMinMax(0, 1)
	require.NoError(t, err)

	out, err := s.FitTransform([]float64{204, 224, 409})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.0975609756, 1}, out, 1e-9)

	minimum, maximum := s.Bounds()
	assert.Equal(t, 204.0, minimum)
	assert.Equal(t, 409.0, maximum)
}

func TestMinMax_BoundsAreFixedAfterFit(t *testing.T) {
	s, err := NewMinMax(0, 1)
	require.NoError(t, err)
	require.NoError(t, s.Fit([]float64{10, 20}))

	out, err := s.Transform([]float64{5, 15, 30})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-0.5, 0.5, 2}, out, 1e-12)
}

func TestMinMax_InverseTransform(t *testing.T) {
	s, err := NewMinMax(-1, 1)
	require.NoError(t, err)

	prices := []float64{729.77, 735.11, 755.98, 880.02}
	scaled, err := s.FitTransform(prices)
	require.NoError(t, err)

	restored, err := s.InverseTransform(scaled)
	require.NoError(t, err)
	assert.InDeltaSlice(t, prices, restored, 1e-9)

	value, err := s.InverseValue(scaled[2])
	require.NoError(t, err)
	assert.InDelta(t, 755.98, value, 1e-9)
}

func TestMinMax_ConstantSeries(t *testing.T) {
	s, err := NewMinMax(0, 1)
	require.NoError(t, err)

	out, err := s.FitTransform([]float64{7, 7, 7})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, out)

	restored, err := s.InverseTransform(out)
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 7, 7}, restored)
}

func TestMinMax_Errors(t *testing.T) {
	_, err := NewMinMax(1, 1)
	require.Error(t, err)

	s, err := NewMinMax(0, 1)
	require.NoError(t, err)

	_, err = s.Transform([]float64{1})
	require.ErrorIs(t, err, core.ErrScalerNotFitted)

	_, err = s.InverseValue(0.5)
	require.ErrorIs(t, err, core.ErrScalerNotFitted)

	require.ErrorIs(t, s.Fit(nil), core.ErrEmptySeries)
	assert.False(t, s.Fitted())
}
