package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/StudioSol/set"
	"github.com/raykavin/stockcast/pkg/core"
	"github.com/samber/lo"
	"github.com/xhit/go-str2duration/v2"
)

var (
	ErrUndatedFeed = errors.New("feed has no date column")

	requiredColumns = []string{"open", "high", "low", "close"}
	timeColumns     = []string{"date", "datetime", "time", "timestamp"}
	missingValues   = set.NewLinkedHashSetString("", "null", "nan", "na", "none")
	dateLayouts     = []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04:05-07:00",
		time.RFC3339,
		"01/02/2006",
	}
)

// DefaultDroppedColumns are corporate-action columns that carry no price information
var DefaultDroppedColumns = []string{"Dividends", "Stock Splits"}

// CSVFeed holds the daily candles of one symbol read from a CSV file
type CSVFeed struct {
	File    string
	Symbol  string
	Candles []core.Candle

	// Rows skipped because a cell was empty or null
	Skipped int

	dropped *set.LinkedHashSetString
}

// Option configures a CSVFeed
type Option func(*CSVFeed)

// WithSymbol overrides the symbol derived from the file name
func WithSymbol(symbol string) Option {
	return func(feed *CSVFeed) {
		feed.Symbol = symbol
	}
}

// WithDroppedColumns replaces the set of columns ignored while reading
func WithDroppedColumns(columns ...string) Option {
	return func(feed *CSVFeed) {
		feed.dropped = set.NewLinkedHashSetString(lo.Map(columns, normalizeHeader)...)
	}
}

// NewCSVFeed reads a price table with a header row
func NewCSVFeed(file string, options ...Option) (*CSVFeed, error) {
	feed := &CSVFeed{
		File:    file,
		Symbol:  strings.ToUpper(strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))),
		dropped: set.NewLinkedHashSetString(lo.Map(DefaultDroppedColumns, normalizeHeader)...),
	}

	for _, option := range options {
		option(feed)
	}

	csvFile, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer csvFile.Close()

	if err := feed.read(csvFile); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	return feed, nil
}

// read parses every line of r into candles
func (c *CSVFeed) read(r io.Reader) error {
	lines, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return err
	}

	if len(lines) == 0 {
		return core.ErrEmptySeries
	}

	layout, err := c.parseHeaders(lines[0])
	if err != nil {
		return err
	}

	candles := make([]core.Candle, 0, len(lines)-1)
	for i, line := range lines[1:] {
		candle, skip, err := layout.parseLine(line, c.Symbol)
		if err != nil {
			return fmt.Errorf("line %d: %w", i+2, err)
		}
		if skip {
			c.Skipped++
			continue
		}
		candles = append(candles, candle)
	}

	if layout.time >= 0 {
		slices.SortStableFunc(candles, func(a, b core.Candle) int {
			return a.Time.Compare(b.Time)
		})
	}

	c.Candles = candles
	return nil
}

// columnLayout maps header names to column indexes
type columnLayout struct {
	index    map[string]int
	time     int
	volume   int
	metadata []string
	names    map[string]string
}

func normalizeHeader(header string, _ int) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
}

// parseHeaders validates the header row and records where each column lives
func (c *CSVFeed) parseHeaders(headers []string) (*columnLayout, error) {
	layout := &columnLayout{
		index:  make(map[string]int, len(headers)),
		names:  make(map[string]string, len(headers)),
		time:   -1,
		volume: -1,
	}

	for i, header := range headers {
		key := normalizeHeader(header, i)
		if c.dropped.InArray(key) {
			continue
		}
		layout.index[key] = i
		layout.names[key] = strings.TrimSpace(header)
	}

	for _, column := range requiredColumns {
		if _, ok := layout.index[column]; !ok {
			return nil, fmt.Errorf("%w: %s", core.ErrMissingColumn, column)
		}
	}

	for _, column := range timeColumns {
		if i, ok := layout.index[column]; ok {
			layout.time = i
			break
		}
	}

	if i, ok := layout.index["volume"]; ok {
		layout.volume = i
	}

	for key, i := range layout.index {
		if i == layout.time || i == layout.volume || slices.Contains(requiredColumns, key) {
			continue
		}
		layout.metadata = append(layout.metadata, key)
	}
	slices.Sort(layout.metadata)

	return layout, nil
}

// parseLine converts one CSV record into a candle. skip is true when the row has a missing value.
func (l *columnLayout) parseLine(line []string, symbol string) (candle core.Candle, skip bool, err error) {
	for _, i := range l.index {
		if i >= len(line) || missingValues.InArray(strings.ToLower(strings.TrimSpace(line[i]))) {
			return core.Candle{}, true, nil
		}
	}

	candle.Symbol = symbol

	if l.time >= 0 {
		if candle.Time, err = parseTime(line[l.time]); err != nil {
			return core.Candle{}, false, err
		}
	}

	fields := []struct {
		column string
		target *float64
	}{
		{"open", &candle.Open},
		{"high", &candle.High},
		{"low", &candle.Low},
		{"close", &candle.Close},
	}
	for _, field := range fields {
		if *field.target, err = parseFloat(line[l.index[field.column]]); err != nil {
			return core.Candle{}, false, fmt.Errorf("%s: %w", l.names[field.column], err)
		}
	}

	if l.volume >= 0 {
		if candle.Volume, err = parseFloat(line[l.volume]); err != nil {
			return core.Candle{}, false, fmt.Errorf("volume: %w", err)
		}
	}

	if len(l.metadata) > 0 {
		candle.Metadata = make(map[string]float64, len(l.metadata))
		for _, key := range l.metadata {
			value, err := parseFloat(line[l.index[key]])
			if err != nil {
				// keeps the column aligned with the rows
				value = math.NaN()
			}
			candle.Metadata[l.names[key]] = value
		}
	}

	return candle, false, nil
}

func parseFloat(value string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(value), 64)
}

// parseTime accepts unix seconds or one of the common daily date layouts
func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	if unix, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date: %q", value)
}

// Limit keeps only the candles inside the trailing period, eg: 365d, 52w
func (c *CSVFeed) Limit(period string) (*CSVFeed, error) {
	if len(c.Candles) == 0 {
		return c, nil
	}

	if !c.Candles[0].HasTime() {
		return nil, ErrUndatedFeed
	}

	duration, err := str2duration.ParseDuration(period)
	if err != nil {
		return nil, err
	}

	start := c.Candles[len(c.Candles)-1].Time.Add(-duration)
	c.Candles = lo.Filter(c.Candles, func(candle core.Candle, _ int) bool {
		return candle.Time.After(start)
	})

	return c, nil
}

// Dataframe returns the candles as columns
func (c *CSVFeed) Dataframe() *core.Dataframe {
	return core.NewDataframe(c.Symbol, c.Candles)
}
