package pipeline

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/raykavin/stockcast/pkg/core"
	"github.com/raykavin/stockcast/pkg/metric"
)

// Evaluation holds one-step-ahead predictions over a windowed slice, in prices
type Evaluation struct {
	Offset      int // series index of the first target
	Pairs       int
	Predictions []float64
	Targets     []float64
	Residuals   []float64
	RMSE        float64
}

// Result is everything a run produced
type Result struct {
	Symbol    string
	Settings  core.Settings
	Actual    []float64
	Times     []time.Time
	TrainSize int

	Train        Evaluation
	Test         Evaluation
	TestInterval metric.BootstrapInterval

	Forecast       []float64
	ForecastScaled []float64

	Run *core.Run
}

// Row is one line of the aligned actual / prediction / forecast table.
// Cells without a value hold NaN.
type Row struct {
	Index        int
	Time         time.Time
	Actual       float64
	TrainPredict float64
	TestPredict  float64
	Forecast     float64
}

// Rows aligns every series on the original index: train prediction i sits at
// TimeStep+i, test prediction i at TrainSize+TimeStep+i and forecast step k at len(Actual)+k.
func (r *Result) Rows() []Row {
	rows := make([]Row, len(r.Actual)+len(r.Forecast))
	for i := range rows {
		rows[i] = Row{
			Index:        i,
			Actual:       math.NaN(),
			TrainPredict: math.NaN(),
			TestPredict:  math.NaN(),
			Forecast:     math.NaN(),
		}
	}

	for i, value := range r.Actual {
		rows[i].Actual = value
		if i < len(r.Times) {
			rows[i].Time = r.Times[i]
		}
	}

	for i, value := range r.Train.Predictions {
		rows[r.Train.Offset+i].TrainPredict = value
	}

	for i, value := range r.Test.Predictions {
		rows[r.Test.Offset+i].TestPredict = value
	}

	forecastDays := r.ForecastTimes()
	for k, value := range r.Forecast {
		row := &rows[len(r.Actual)+k]
		row.Forecast = value
		row.Time = forecastDays[k]
	}

	return rows
}

// ForecastTimes returns the trading days following the last dated row, skipping
// weekends. Undated inputs get zero times.
func (r *Result) ForecastTimes() []time.Time {
	days := make([]time.Time, len(r.Forecast))
	if len(r.Times) == 0 || r.Times[len(r.Times)-1].IsZero() {
		return days
	}

	day := r.Times[len(r.Times)-1]
	for k := range days {
		day = nextTradingDay(day)
		days[k] = day
	}
	return days
}

func nextTradingDay(t time.Time) time.Time {
	t = t.AddDate(0, 0, 1)
	for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// Message is the short text sent to notifiers
func (r *Result) Message() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "*%s* %d-day forecast (%s, window %d)\n",
		r.Symbol, r.Settings.Horizon, r.Settings.Model, r.Settings.TimeStep)
	fmt.Fprintf(&sb, "RMSE train `%.4f` test `%.4f`\n", r.Train.RMSE, r.Test.RMSE)

	if len(r.Actual) > 0 && len(r.Forecast) > 0 {
		last := r.Actual[len(r.Actual)-1]
		final := r.Forecast[len(r.Forecast)-1]
		fmt.Fprintf(&sb, "Last close `%.2f` -> day %d `%.2f` (%+.2f%%)",
			last, len(r.Forecast), final, (final-last)/last*100)
	}

	return sb.String()
}
