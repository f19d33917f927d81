// Package model provides one-step-ahead predictors trained on windowed price pairs.
package model

import (
	"fmt"
	"strings"

	"github.com/raykavin/stockcast/pkg/core"
	"github.com/raykavin/stockcast/pkg/window"
)

// Kind names a trainer
type Kind string

const (
	// KindLinear is a ridge-regularized autoregressive linear model
	KindLinear Kind = "linear"
	// KindMean predicts the mean of the window
	KindMean Kind = "mean"
	// KindLast predicts the newest value of the window (persistence)
	KindLast Kind = "last"
)

// Kinds lists the available trainers
func Kinds() []Kind {
	return []Kind{KindLinear, KindMean, KindLast}
}

// Trainer fits a predictor on training pairs
type Trainer interface {
	Fit(pairs window.Pairs) (core.BatchPredictor, error)
}

// ParseKind normalizes a model name, eg: " Linear" is KindLinear
func ParseKind(kind string) Kind {
	return Kind(strings.ToLower(strings.TrimSpace(kind)))
}

// NewTrainer returns the trainer for kind. ridge only applies to KindLinear.
func NewTrainer(kind string, ridge float64) (Trainer, error) {
	switch ParseKind(kind) {
	case KindLinear:
		return LinearTrainer{Ridge: ridge}, nil
	case KindMean:
		return MeanTrainer{}, nil
	case KindLast:
		return LastTrainer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownModel, kind)
	}
}

// predictEach applies predict to every window
func predictEach(p core.Predictor, windows [][]float64) ([]float64, error) {
	out := make([]float64, len(windows))
	for i, w := range windows {
		value, err := p.Predict(w)
		if err != nil {
			return nil, err
		}
		out[i] = value
	}
	return out, nil
}
