package aggregate

import (
	"math"
	"testing"
)

func TestSummariesMeanAndPopulationStd(t *testing.T) {
	table := NewTable()
	for _, value := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		if err := table.Append("Dice", value); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	summaries := table.Summaries()
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	got := summaries[0]
	if got.Count != 8 {
		t.Fatalf("expected count 8, got %d", got.Count)
	}
	if got.Mean != 5 {
		t.Fatalf("expected mean 5, got %v", got.Mean)
	}
	// Population standard deviation of this classic set is exactly 2;
	// the sample estimator would give ~2.138.
	if math.Abs(got.StdDev-2) > 1e-12 {
		t.Fatalf("expected population std 2, got %v", got.StdDev)
	}
}

func TestSummariesSingleSample(t *testing.T) {
	table := NewTable()
	if err := table.Append("Dice", 0.91); err != nil {
		t.Fatalf("append: %v", err)
	}

	got := table.Summaries()[0]
	if got.Mean != 0.91 || got.StdDev != 0 {
		t.Fatalf("expected mean 0.91 std 0, got mean %v std %v", got.Mean, got.StdDev)
	}
}

func TestAppendRejectsNonFinite(t *testing.T) {
	table := NewTable()
	if err := table.Append("HausdorffDistance", math.Inf(1)); err == nil {
		t.Fatal("expected rejection of +Inf")
	}
	if err := table.Append("HausdorffDistance", math.NaN()); err == nil {
		t.Fatal("expected rejection of NaN")
	}
	if table.Len() != 0 {
		t.Fatalf("rejected values must not register metrics, got %v", table.Metrics())
	}
}

func TestMetricsPreserveFirstSeenOrder(t *testing.T) {
	table := NewTable()
	for _, metric := range []string{"Jaccard", "Dice", "Sensitivity", "Dice"} {
		if err := table.Append(metric, 1); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	metrics := table.Metrics()
	want := []string{"Jaccard", "Dice", "Sensitivity"}
	if len(metrics) != len(want) {
		t.Fatalf("expected %d metrics, got %d", len(want), len(metrics))
	}
	for i, metric := range want {
		if metrics[i] != metric {
			t.Fatalf("metric %d: expected %s, got %s", i, metric, metrics[i])
		}
	}
	if values := table.Values("Dice"); len(values) != 2 {
		t.Fatalf("expected 2 Dice samples, got %d", len(values))
	}
}

func TestLineFormats(t *testing.T) {
	summary := Summary{Metric: "Dice", Mean: 0.912345, StdDev: 0.056789}

	if got := summary.ConsoleLine(); got != "\tDice -> Mean: 0.9123 Std: 0.06" {
		t.Fatalf("unexpected console line %q", got)
	}
	if got := summary.LogLine(); got != "\tDice --> Mean: 0.912, Std: 0.057" {
		t.Fatalf("unexpected log line %q", got)
	}
}
