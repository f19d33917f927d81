package optimizer

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

// PrintResults writes the topN scores as a table, all of them when topN <= 0
func PrintResults(w io.Writer, scores []*Score, topN int) {
	if topN > 0 && topN < len(scores) {
		scores = scores[:topN]
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Model", "Step", "Ridge", "Train RMSE", "Test RMSE", "Duration"})
	table.SetFooterAlignment(tablewriter.ALIGN_RIGHT)

	for i, score := range scores {
		train, test := fmt.Sprintf("%.4f", score.TrainRMSE), fmt.Sprintf("%.4f", score.TestRMSE)
		if score.Err != nil {
			train, test = "-", "insufficient data"
		}

		table.Append([]string{
			strconv.Itoa(i + 1),
			score.Model,
			strconv.Itoa(score.TimeStep),
			strconv.FormatFloat(score.Ridge, 'g', -1, 64),
			train,
			test,
			score.Duration.Round(time.Millisecond).String(),
		})
	}

	table.Render()
}
