// Package window turns a chronological price series into supervised
// (window, next value) pairs for one-step-ahead models.
package window

import (
	"fmt"

	"github.com/raykavin/stockcast/pkg/core"
	"gonum.org/v1/gonum/mat"
)

// Pair is one training example: timeStep consecutive values and the value that follows them
type Pair struct {
	Window []float64
	Target float64
}

// Pairs is an ordered set of training examples, oldest window first
type Pairs []Pair

// CreateDataset slides a window of length timeStep over series one step at a time.
// Pair i is (series[i:i+timeStep], series[i+timeStep]) for i in [0, len(series)-timeStep-2],
// so exactly len(series)-timeStep-1 pairs are produced. When the series is too short, or
// timeStep is not positive, the result is empty.
func CreateDataset(series []float64, timeStep int) Pairs {
	if timeStep <= 0 || len(series) <= timeStep+1 {
		return Pairs{}
	}

	count := len(series) - timeStep - 1
	pairs := make(Pairs, count)
	for i := 0; i < count; i++ {
		w := make([]float64, timeStep)
		copy(w, series[i:i+timeStep])
		pairs[i] = Pair{Window: w, Target: series[i+timeStep]}
	}

	return pairs
}

// Len returns the number of pairs
func (p Pairs) Len() int {
	return len(p)
}

// TimeStep returns the window length, 0 for an empty set
func (p Pairs) TimeStep() int {
	if len(p) == 0 {
		return 0
	}
	return len(p[0].Window)
}

// Inputs returns the windows in order
func (p Pairs) Inputs() [][]float64 {
	inputs := make([][]float64, len(p))
	for i, pair := range p {
		inputs[i] = pair.Window
	}
	return inputs
}

// Targets returns the values following each window
func (p Pairs) Targets() []float64 {
	targets := make([]float64, len(p))
	for i, pair := range p {
		targets[i] = pair.Target
	}
	return targets
}

// Matrix returns the windows as an n x timeStep matrix and the targets as a vector
func (p Pairs) Matrix() (*mat.Dense, *mat.VecDense, error) {
	if len(p) == 0 {
		return nil, nil, core.ErrInsufficientData
	}

	n, w := len(p), p.TimeStep()
	data := make([]float64, 0, n*w)
	for i, pair := range p {
		if len(pair.Window) != w {
			return nil, nil, fmt.Errorf("pair %d: %w: expected %d, got %d",
				i, core.ErrMismatchedSeriesSize, w, len(pair.Window))
		}
		data = append(data, pair.Window...)
	}

	return mat.NewDense(n, w, data), mat.NewVecDense(n, p.Targets()), nil
}
