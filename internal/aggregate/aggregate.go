package aggregate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Header is the banner line preceding per-metric summary output.
const Header = "Test Phase Metrics [ANIMA]: "

// Table accumulates metric samples across subjects, preserving the order in
// which metrics first appear. A metric missing for some subjects simply
// aggregates over fewer samples.
type Table struct {
	order  []string
	values map[string][]float64
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{values: make(map[string][]float64)}
}

// Append adds one sample. Non-finite values are rejected so the summary
// statistics stay defined; callers filter those out with a diagnostic before
// appending.
func (t *Table) Append(metric string, value float64) error {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return fmt.Errorf("non-finite value for metric %s", metric)
	}
	if _, seen := t.values[metric]; !seen {
		t.order = append(t.order, metric)
	}
	t.values[metric] = append(t.values[metric], value)
	return nil
}

// Metrics lists metric names in first-seen order.
func (t *Table) Metrics() []string {
	return append([]string(nil), t.order...)
}

// Values returns the samples collected for a metric.
func (t *Table) Values(metric string) []float64 {
	return append([]float64(nil), t.values[metric]...)
}

// Len reports the number of distinct metrics.
func (t *Table) Len() int {
	return len(t.order)
}

// Summary is the aggregate of one metric across the cohort.
type Summary struct {
	Metric string
	Count  int
	Mean   float64
	StdDev float64
}

// Summaries computes the mean and population standard deviation for every
// metric, in first-seen order.
func (t *Table) Summaries() []Summary {
	summaries := make([]Summary, 0, len(t.order))
	for _, metric := range t.order {
		samples := t.values[metric]
		summaries = append(summaries, Summary{
			Metric: metric,
			Count:  len(samples),
			Mean:   stat.Mean(samples, nil),
			StdDev: stat.PopStdDev(samples, nil),
		})
	}
	return summaries
}

// ConsoleLine formats a summary for interactive output.
func (s Summary) ConsoleLine() string {
	return fmt.Sprintf("\t%s -> Mean: %0.4f Std: %0.2f", s.Metric, s.Mean, s.StdDev)
}

// LogLine formats a summary for the persistent log file.
func (s Summary) LogLine() string {
	return fmt.Sprintf("\t%s --> Mean: %0.3f, Std: %0.3f", s.Metric, s.Mean, s.StdDev)
}
