package model

import (
	"fmt"

	"github.com/raykavin/stockcast/pkg/core"
	"github.com/raykavin/stockcast/pkg/window"
	"gonum.org/v1/gonum/mat"
)

// DefaultRidge keeps the normal equations well conditioned when windows overlap heavily
const DefaultRidge = 1e-4

// Linear predicts the next value as a weighted sum of the window plus a bias
type Linear struct {
	Weights []float64
	Bias    float64
}

// Predict implements core.Predictor
func (l *Linear) Predict(w []float64) (float64, error) {
	if len(w) != len(l.Weights) {
		return 0, fmt.Errorf("%w: expected window of %d, got %d",
			core.ErrMismatchedSeriesSize, len(l.Weights), len(w))
	}
	return mat.Dot(mat.NewVecDense(len(w), w), mat.NewVecDense(len(l.Weights), l.Weights)) + l.Bias, nil
}

// PredictBatch implements core.BatchPredictor with one matrix-vector product
func (l *Linear) PredictBatch(windows [][]float64) ([]float64, error) {
	if len(windows) == 0 {
		return []float64{}, nil
	}

	n, size := len(windows), len(l.Weights)
	data := make([]float64, 0, n*size)
	for _, w := range windows {
		if len(w) != size {
			return nil, fmt.Errorf("%w: expected window of %d, got %d",
				core.ErrMismatchedSeriesSize, size, len(w))
		}
		data = append(data, w...)
	}

	var out mat.VecDense
	out.MulVec(mat.NewDense(n, size, data), mat.NewVecDense(size, l.Weights))

	result := make([]float64, n)
	for i := range result {
		result[i] = out.AtVec(i) + l.Bias
	}
	return result, nil
}

// LinearTrainer fits Linear by solving (XᵀX + λI)β = Xᵀy, where X carries a trailing bias column
type LinearTrainer struct {
	Ridge float64
}

// Fit implements Trainer
func (t LinearTrainer) Fit(pairs window.Pairs) (core.BatchPredictor, error) {
	x, y, err := pairs.Matrix()
	if err != nil {
		return nil, err
	}

	n, size := x.Dims()

	// design matrix with a bias column
	design := mat.NewDense(n, size+1, nil)
	design.Slice(0, n, 0, size).(*mat.Dense).Copy(x)
	for i := 0; i < n; i++ {
		design.Set(i, size, 1)
	}

	ridge := t.Ridge
	if ridge <= 0 {
		ridge = DefaultRidge
	}

	var gram mat.Dense
	gram.Mul(design.T(), design)
	for i := 0; i < size; i++ {
		gram.Set(i, i, gram.At(i, i)+ridge)
	}

	var moment mat.VecDense
	moment.MulVec(design.T(), y)

	var beta mat.VecDense
	if err := beta.SolveVec(&gram, &moment); err != nil {
		return nil, fmt.Errorf("solve normal equations: %w", err)
	}

	weights := make([]float64, size)
	for i := range weights {
		weights[i] = beta.AtVec(i)
	}

	return &Linear{Weights: weights, Bias: beta.AtVec(size)}, nil
}
