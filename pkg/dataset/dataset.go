// Package dataset loads monthly temperature and rainfall records from CSV and
// answers (month, year) lookups with the mean of the matching rows.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xob0t/weatherart/pkg/art"
)

// Fallback year range for datasets without usable years.
const (
	FallbackMinYear = 1901
	FallbackMaxYear = 2023
)

var (
	ErrInvalidMonth  = errors.New("month must be between 1 and 12")
	ErrNotFound      = errors.New("no data for month and year")
	ErrMissingValues = errors.New("data present but values are missing")
	ErrEmpty         = errors.New("dataset is empty")
)

// Column aliases, matched case-insensitively.
var (
	monthColumns       = []string{"month"}
	yearColumns        = []string{"year"}
	temperatureColumns = []string{"tem", "temp", "temperature"}
	rainfallColumns    = []string{"rain", "rainfall"}
)

// Record is one row of the dataset. Unparseable values are NaN.
type Record struct {
	Month       int
	Year        int
	Temperature float64
	Rainfall    float64
}

// Dataset is an immutable, in-memory set of records.
type Dataset struct {
	records []Record
}

// Load reads a dataset from a CSV file.
func Load(path string, logger *slog.Logger) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Parse(f, logger)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if logger != nil {
		logger.Info("dataset loaded", "path", path, "records", ds.Len())
	}
	return ds, nil
}

// Parse reads CSV with a header row. Month and Year columns are required,
// plus one temperature and one rainfall column.
func Parse(r io.Reader, logger *slog.Logger) (*Dataset, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{}
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, ok := parseRecord(row, cols, line, logger)
		if ok {
			ds.records = append(ds.records, rec)
		}
	}

	return ds, nil
}

type columns struct {
	month, year, temp, rain int
}

func resolveColumns(header []string) (columns, error) {
	find := func(name string, aliases []string) (int, error) {
		for i, h := range header {
			h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
			for _, a := range aliases {
				if strings.EqualFold(h, a) {
					return i, nil
				}
			}
		}
		return -1, fmt.Errorf("required column %q not found in header %v", name, header)
	}

	var c columns
	var err error
	if c.month, err = find("Month", monthColumns); err != nil {
		return c, err
	}
	if c.year, err = find("Year", yearColumns); err != nil {
		return c, err
	}
	if c.temp, err = find("tem", temperatureColumns); err != nil {
		return c, err
	}
	if c.rain, err = find("rain", rainfallColumns); err != nil {
		return c, err
	}
	return c, nil
}

func parseRecord(row []string, cols columns, line int, logger *slog.Logger) (Record, bool) {
	field := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	month, err := parseInt(field(cols.month))
	if err != nil {
		logger.Warn("skipping row with invalid month", "line", line, "value", field(cols.month))
		return Record{}, false
	}
	year, err := parseInt(field(cols.year))
	if err != nil {
		logger.Warn("skipping row with invalid year", "line", line, "value", field(cols.year))
		return Record{}, false
	}

	rec := Record{Month: month, Year: year}
	rec.Temperature = parseValue(field(cols.temp), "temperature", line, logger)
	rec.Rainfall = parseValue(field(cols.rain), "rainfall", line, logger)
	return rec, true
}

// parseInt accepts "7" as well as "7.0".
func parseInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}

func parseValue(s, name string, line int, logger *slog.Logger) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		logger.Warn("unparseable value kept as missing", "line", line, "column", name, "value", s)
		return math.NaN()
	}
	return v
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of all records.
func (d *Dataset) Records() []Record {
	return append([]Record(nil), d.records...)
}

// Lookup returns the mean temperature and rainfall of all rows for the given
// month and year, skipping missing values.
func (d *Dataset) Lookup(month, year int) (art.Sample, error) {
	if month < 1 || month > 12 {
		return art.Sample{}, fmt.Errorf("%w, got %d", ErrInvalidMonth, month)
	}

	var tempSum, rainSum float64
	var tempN, rainN, matched int
	for _, r := range d.records {
		if r.Month != month || r.Year != year {
			continue
		}
		matched++
		if !math.IsNaN(r.Temperature) {
			tempSum += r.Temperature
			tempN++
		}
		if !math.IsNaN(r.Rainfall) {
			rainSum += r.Rainfall
			rainN++
		}
	}

	if matched == 0 {
		return art.Sample{}, fmt.Errorf("%w: %d/%d", ErrNotFound, month, year)
	}
	if tempN == 0 || rainN == 0 {
		return art.Sample{}, fmt.Errorf("%w: %d/%d", ErrMissingValues, month, year)
	}

	return art.Sample{
		Temperature: tempSum / float64(tempN),
		Rainfall:    rainSum / float64(rainN),
	}, nil
}

// YearRange returns the smallest and largest year present. ok is false for an
// empty dataset; callers then fall back to FallbackMinYear..FallbackMaxYear.
func (d *Dataset) YearRange() (lo, hi int, ok bool) {
	if len(d.records) == 0 {
		return 0, 0, false
	}
	lo, hi = d.records[0].Year, d.records[0].Year
	for _, r := range d.records[1:] {
		lo = min(lo, r.Year)
		hi = max(hi, r.Year)
	}
	return lo, hi, true
}

// YearRangeOrFallback is YearRange with the fallback applied.
func (d *Dataset) YearRangeOrFallback() (lo, hi int) {
	if d == nil {
		return FallbackMinYear, FallbackMaxYear
	}
	if lo, hi, ok := d.YearRange(); ok {
		return lo, hi
	}
	return FallbackMinYear, FallbackMaxYear
}
