package charts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Dataset holds per-subject rows of cross-sectional area values, one column
// per method/contrast combination. Column order follows the source CSV.
type Dataset struct {
	subjects []string
	columns  []string
	data     map[string][]float64
}

// ReadCSV parses a dataset whose first column identifies the subject and
// whose remaining columns are numeric. Empty cells become NaN.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) < 2 {
		return nil, errors.New("csv needs a subject column and at least one value column")
	}

	ds := &Dataset{data: make(map[string][]float64)}
	for _, name := range header[1:] {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.New("csv header has an empty column name")
		}
		if _, dup := ds.data[name]; dup {
			return nil, fmt.Errorf("duplicate csv column %q", name)
		}
		ds.columns = append(ds.columns, name)
		ds.data[name] = nil
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		subject := strings.TrimSpace(record[0])
		ds.subjects = append(ds.subjects, subject)
		for i, name := range ds.columns {
			value, err := parseCell(record[i+1])
			if err != nil {
				return nil, fmt.Errorf("row %q column %q: %w", subject, name, err)
			}
			ds.data[name] = append(ds.data[name], value)
		}
	}
	if len(ds.subjects) == 0 {
		return nil, errors.New("csv has no data rows")
	}
	return ds, nil
}

// ReadCSVFile reads a dataset from disk.
func ReadCSVFile(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	ds, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("csv %s: %w", path, err)
	}
	return ds, nil
}

func parseCell(text string) (float64, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return math.NaN(), nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable value %q", trimmed)
	}
	return value, nil
}

// Subjects returns the row identifiers in order.
func (d *Dataset) Subjects() []string {
	return append([]string(nil), d.subjects...)
}

// Columns returns the column names in order.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// Len reports the number of rows.
func (d *Dataset) Len() int {
	return len(d.subjects)
}

// Column returns a copy of the named column and whether it exists.
func (d *Dataset) Column(name string) ([]float64, bool) {
	values, ok := d.data[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), values...), true
}

// Clone deep-copies the dataset.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		subjects: append([]string(nil), d.subjects...),
		columns:  append([]string(nil), d.columns...),
		data:     make(map[string][]float64, len(d.data)),
	}
	for name, values := range d.data {
		out.data[name] = append([]float64(nil), values...)
	}
	return out
}

// AddColumn appends a new column. The value count must match the row count.
func (d *Dataset) AddColumn(name string, values []float64) error {
	if _, exists := d.data[name]; exists {
		return fmt.Errorf("column %q already exists", name)
	}
	if len(values) != len(d.subjects) {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(d.subjects))
	}
	d.columns = append(d.columns, name)
	d.data[name] = append([]float64(nil), values...)
	return nil
}

// column returns the live backing slice for in-place transforms.
func (d *Dataset) column(name string) ([]float64, bool) {
	values, ok := d.data[name]
	return values, ok
}
