package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/raykavin/stockcast/pkg/pipeline"
)

// CSVHeader is the column layout written by WriteCSV
var CSVHeader = []string{"index", "date", "actual", "train_predict", "test_predict", "forecast"}

// WriteCSV saves the aligned actual, prediction and forecast columns to path
func WriteCSV(path string, result *pipeline.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := EncodeCSV(file, result); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

// EncodeCSV writes the aligned rows of result, leaving cells without a value empty
func EncodeCSV(w io.Writer, result *pipeline.Result) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CSVHeader); err != nil {
		return err
	}

	for _, row := range result.Rows() {
		record := []string{
			strconv.Itoa(row.Index),
			formatDate(row.Time),
			formatCell(row.Actual),
			formatCell(row.TrainPredict),
			formatCell(row.TestPredict),
			formatCell(row.Forecast),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
