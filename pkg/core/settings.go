package core

// Settings holds the knobs of a forecasting run
type Settings struct {
	Source     string  // Input file the prices were read from
	Model      string  // Trainer kind, eg: linear, mean, last
	TimeStep   int     // Window length fed to the predictor
	Horizon    int     // Number of future days to forecast
	TrainRatio float64 // Share of the series used for training, chronologically first
}

// DefaultSettings returns 100-day windows and a 30-day horizon over a 70% training split
func DefaultSettings() Settings {
	return Settings{
		Model:      "linear",
		TimeStep:   100,
		Horizon:    30,
		TrainRatio: 0.7,
	}
}
