package core

// Predictor produces a one-step-ahead value from a window of normalized prices
type Predictor interface {
	Predict(window []float64) (float64, error)
}

// BatchPredictor evaluates many windows at once, one value per window
type BatchPredictor interface {
	Predictor
	PredictBatch(windows [][]float64) ([]float64, error)
}

// PredictorFunc adapts a plain function to the Predictor interface
type PredictorFunc func(window []float64) (float64, error)

// Predict implements Predictor
func (f PredictorFunc) Predict(window []float64) (float64, error) {
	return f(window)
}

// Scaler maps a series to a normalized range and back
type Scaler interface {
	FitTransform(values []float64) ([]float64, error)
	Transform(values []float64) ([]float64, error)
	InverseTransform(values []float64) ([]float64, error)
}

type Notifier interface {
	Notify(string)
}
