package window

import (
	"fmt"

	"github.com/raykavin/stockcast/pkg/core"
)

// Split cuts series chronologically: the first int(len*trainRatio) values train, the rest test
func Split(series []float64, trainRatio float64) (train, test []float64, err error) {
	if trainRatio <= 0 || trainRatio >= 1 {
		return nil, nil, fmt.Errorf("%w: %v", core.ErrInvalidSplitRatio, trainRatio)
	}

	trainSize := int(float64(len(series)) * trainRatio)
	return series[:trainSize:trainSize], series[trainSize:], nil
}

// TrainSize returns the number of values Split assigns to the training slice
func TrainSize(length int, trainRatio float64) int {
	return int(float64(length) * trainRatio)
}

// TargetIndex returns the position in the source series of the target of pair i,
// given the offset at which the windowed slice starts
func TargetIndex(offset, timeStep, i int) int {
	return offset + i + timeStep
}
