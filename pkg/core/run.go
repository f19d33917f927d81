package core

import (
	"time"
)

// Run is the persisted record of one forecasting run
type Run struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
	Source     string    `json:"source" gorm:"index"`
	Model      string    `json:"model" gorm:"index"`
	TimeStep   int       `json:"time_step"`
	Horizon    int       `json:"horizon"`
	TrainRatio float64   `json:"train_ratio"`
	Rows       int       `json:"rows"`
	TrainPairs int       `json:"train_pairs"`
	TestPairs  int       `json:"test_pairs"`
	TrainRMSE  float64   `json:"train_rmse"`
	TestRMSE   float64   `json:"test_rmse"`
	ScaleMin   float64   `json:"scale_min"`
	ScaleMax   float64   `json:"scale_max"`

	// Forecasted closing prices, original scale
	Forecast []float64 `json:"forecast" gorm:"serializer:json"`
}

// RunFilter selects runs when listing storage contents
type RunFilter func(run Run) bool

// RunStorage persists forecasting runs
type RunStorage interface {
	// SaveRun stores a run, assigning CreatedAt when empty
	SaveRun(run *Run) error

	// Runs retrieves runs oldest first, keeping those accepted by every filter
	Runs(filters ...RunFilter) ([]*Run, error)
}

func WithSource(source string) RunFilter {
	return func(run Run) bool {
		return run.Source == source
	}
}

func WithModel(model string) RunFilter {
	return func(run Run) bool {
		return run.Model == model
	}
}

func WithCreatedAfter(t time.Time) RunFilter {
	return func(run Run) bool {
		return run.CreatedAt.After(t)
	}
}
