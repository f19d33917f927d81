// Package report renders price tables, run results and stored runs for the terminal and CSV
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/stockcast/pkg/core"
	"github.com/raykavin/stockcast/pkg/indicator"
	"github.com/raykavin/stockcast/pkg/metric"
)

var (
	exploreColumns = []string{"Open", "High", "Low", "Close", "Volume"}
	studyPeriods   = []int{20, 50, 100}
)

// Explore writes a describe() table of the OHLCV columns, trailing moving averages of
// the close and a histogram of closing prices
func Explore(w io.Writer, df *core.Dataframe) error {
	fmt.Fprintf(w, "-- %s: %d rows", df.Symbol, df.Len())
	if df.Len() > 0 && !df.TimeAt(0).IsZero() {
		fmt.Fprintf(w, " from %s to %s", df.TimeAt(0).Format("2006-01-02"),
			df.TimeAt(df.Len()-1).Format("2006-01-02"))
	}
	fmt.Fprintln(w, " --")

	describeTable(w, df)
	studyTable(w, df.Close)

	if df.Len() == 0 {
		return nil
	}

	fmt.Fprintln(w, "-- CLOSE DISTRIBUTION --")
	hist := histogram.Hist(15, df.Close.Values())
	return histogram.Fprint(w, hist, histogram.Linear(10))
}

func describeTable(w io.Writer, df *core.Dataframe) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(append([]string{""}, exploreColumns...))

	descriptions := make([]metric.Description, len(exploreColumns))
	for i, name := range exploreColumns {
		column, _ := df.Column(name)
		descriptions[i] = metric.Describe(column.Values())
	}

	statistics := []struct {
		name  string
		value func(metric.Description) float64
	}{
		{"mean", func(d metric.Description) float64 { return d.Mean }},
		{"std", func(d metric.Description) float64 { return d.Std }},
		{"min", func(d metric.Description) float64 { return d.Min }},
		{"25%", func(d metric.Description) float64 { return d.Q25 }},
		{"50%", func(d metric.Description) float64 { return d.Q50 }},
		{"75%", func(d metric.Description) float64 { return d.Q75 }},
		{"max", func(d metric.Description) float64 { return d.Max }},
	}

	count := []string{"count"}
	for _, d := range descriptions {
		count = append(count, strconv.Itoa(d.Count))
	}
	table.Append(count)

	for _, s := range statistics {
		row := []string{s.name}
		for _, d := range descriptions {
			row = append(row, formatFloat(s.value(d)))
		}
		table.Append(row)
	}

	table.Render()
}

func studyTable(w io.Writer, closes core.Series[float64]) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Period", "SMA", "EMA", "RSI"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})

	for _, period := range studyPeriods {
		table.Append([]string{
			strconv.Itoa(period),
			formatFloat(indicator.Latest(indicator.SMA, closes, period)),
			formatFloat(indicator.Latest(indicator.EMA, closes, period)),
			formatFloat(indicator.Latest(indicator.RSI, closes, period)),
		})
	}

	table.Render()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
