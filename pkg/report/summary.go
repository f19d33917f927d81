package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/stockcast/pkg/pipeline"
	"github.com/shopspring/decimal"
)

// Summary writes the run table, the forecast table and a histogram of test residuals
func Summary(w io.Writer, result *pipeline.Result) error {
	runTable(w, result)
	forecastTable(w, result)

	if len(result.Test.Residuals) == 0 {
		return nil
	}

	fmt.Fprintln(w, "-- TEST RESIDUALS --")
	hist := histogram.Hist(15, result.Test.Residuals)
	return histogram.Fprint(w, hist, histogram.Linear(10))
}

func runTable(w io.Writer, result *pipeline.Result) {
	table := tablewriter.NewWriter(w)
	settings := result.Settings

	data := [][]string{
		{"Symbol", result.Symbol},
		{"Model", settings.Model},
		{"Rows", strconv.Itoa(len(result.Actual))},
		{"Time step", strconv.Itoa(settings.TimeStep)},
		{"Train / test rows", fmt.Sprintf("%d / %d", result.TrainSize, len(result.Actual)-result.TrainSize)},
		{"Train / test pairs", fmt.Sprintf("%d / %d", result.Train.Pairs, result.Test.Pairs)},
		{"Train RMSE", fmt.Sprintf("%.4f", result.Train.RMSE)},
		{"Test RMSE", fmt.Sprintf("%.4f", result.Test.RMSE)},
	}

	if interval := result.TestInterval; interval.Upper > 0 {
		data = append(data, []string{"Test RMSE CI", fmt.Sprintf("%.4f - %.4f", interval.Lower, interval.Upper)})
	}

	if result.Run != nil {
		data = append(data, []string{"Run", result.Run.ID})
	}

	table.AppendBulk(data)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.Render()
}

func forecastTable(w io.Writer, result *pipeline.Result) {
	if len(result.Forecast) == 0 {
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Day", "Date", "Close", "Change"})
	table.SetFooterAlignment(tablewriter.ALIGN_RIGHT)

	last := decimal.NewFromFloat(result.Actual[len(result.Actual)-1])
	days := result.ForecastTimes()

	for k, value := range result.Forecast {
		price := decimal.NewFromFloat(value)
		table.Append([]string{
			strconv.Itoa(k + 1),
			formatDate(days[k]),
			price.StringFixed(2),
			percentChange(last, price),
		})
	}

	final := decimal.NewFromFloat(result.Forecast[len(result.Forecast)-1])
	table.SetFooter([]string{"", "Last close", last.StringFixed(2), percentChange(last, final)})
	table.Render()
}

func percentChange(from, to decimal.Decimal) string {
	if from.IsZero() {
		return "-"
	}
	change := to.Sub(from).Div(from).Mul(decimal.NewFromInt(100))
	if change.IsPositive() {
		return "+" + change.StringFixed(2) + "%"
	}
	return change.StringFixed(2) + "%"
}
