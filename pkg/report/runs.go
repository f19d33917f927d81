package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/stockcast/pkg/core"
	"github.com/shopspring/decimal"
)

// Runs writes one line per stored run
func Runs(w io.Writer, runs []*core.Run) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Created", "Source", "Model", "Step", "Horizon", "Train RMSE", "Test RMSE", "Final"})
	table.SetFooterAlignment(tablewriter.ALIGN_RIGHT)

	for _, run := range runs {
		final := "-"
		if len(run.Forecast) > 0 {
			final = decimal.NewFromFloat(run.Forecast[len(run.Forecast)-1]).StringFixed(2)
		}

		table.Append([]string{
			run.ID,
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.Source,
			run.Model,
			strconv.Itoa(run.TimeStep),
			strconv.Itoa(run.Horizon),
			fmt.Sprintf("%.4f", run.TrainRMSE),
			fmt.Sprintf("%.4f", run.TestRMSE),
			final,
		})
	}

	table.SetFooter([]string{"", "", "", "", "", "", "", "Runs", strconv.Itoa(len(runs))})
	table.Render()
}
