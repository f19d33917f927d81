package model

import (
	"github.com/raykavin/stockcast/pkg/core"
	"github.com/raykavin/stockcast/pkg/window"
	"gonum.org/v1/gonum/stat"
)

// Mean predicts the arithmetic mean of the window
type Mean struct{}

func (Mean) Predict(w []float64) (float64, error) {
	if len(w) == 0 {
		return 0, core.ErrEmptySeries
	}
	return stat.Mean(w, nil), nil
}

func (m Mean) PredictBatch(windows [][]float64) ([]float64, error) {
	return predictEach(m, windows)
}

// Last predicts that tomorrow closes where today did
type Last struct{}

func (Last) Predict(w []float64) (float64, error) {
	if len(w) == 0 {
		return 0, core.ErrEmptySeries
	}
	return w[len(w)-1], nil
}

func (l Last) PredictBatch(windows [][]float64) ([]float64, error) {
	return predictEach(l, windows)
}

// MeanTrainer returns Mean regardless of the data
type MeanTrainer struct{}

func (MeanTrainer) Fit(pairs window.Pairs) (core.BatchPredictor, error) {
	if pairs.Len() == 0 {
		return nil, core.ErrInsufficientData
	}
	return Mean{}, nil
}

// LastTrainer returns Last regardless of the data
type LastTrainer struct{}

func (LastTrainer) Fit(pairs window.Pairs) (core.BatchPredictor, error) {
	if pairs.Len() == 0 {
		return nil, core.ErrInsufficientData
	}
	return Last{}, nil
}
