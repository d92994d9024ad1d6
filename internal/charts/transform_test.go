package charts

import (
	"math"
	"strings"
	"testing"
)

func transformFixture(t *testing.T) *Dataset {
	t.Helper()
	csv := `subject,m1_t2w,m1_t1w,m1_dwi
sub-01,2,1,2
sub-02,4,5,2
`
	ds, err := ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return ds
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPairwiseDiff(t *testing.T) {
	ds := transformFixture(t)

	out, perfNames, err := PairwiseDiff(ds, []string{"m1"}, []string{"t1w", "dwi"}, "t2w")
	if err != nil {
		t.Fatalf("pairwise diff: %v", err)
	}
	if len(perfNames) != 1 || perfNames[0] != "m1_perf_pwd" {
		t.Fatalf("unexpected perf names: %v", perfNames)
	}

	t1w, _ := out.Column("m1_t1w")
	if !almostEqual(t1w[0], 50) || !almostEqual(t1w[1], -25) {
		t.Fatalf("unexpected t1w differences: %v", t1w)
	}
	dwi, _ := out.Column("m1_dwi")
	if !almostEqual(dwi[0], 0) || !almostEqual(dwi[1], 50) {
		t.Fatalf("unexpected dwi differences: %v", dwi)
	}
	perf, _ := out.Column("m1_perf_pwd")
	if !almostEqual(perf[0], 25) || !almostEqual(perf[1], 12.5) {
		t.Fatalf("unexpected perf values: %v", perf)
	}

	// The input dataset is untouched.
	original, _ := ds.Column("m1_t1w")
	if original[0] != 1 || original[1] != 5 {
		t.Fatalf("input dataset was mutated: %v", original)
	}
}

func TestPairwiseDiffSkipsMissingCells(t *testing.T) {
	csv := `subject,m1_t2w,m1_t1w,m1_dwi
sub-01,2,1,2
sub-02,4,,2
`
	ds, err := ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	out, _, err := PairwiseDiff(ds, []string{"m1"}, []string{"t1w", "dwi"}, "t2w")
	if err != nil {
		t.Fatalf("pairwise diff: %v", err)
	}

	perf, _ := out.Column("m1_perf_pwd")
	if !almostEqual(perf[0], 25) {
		t.Fatalf("row 0 perf: expected 25, got %v", perf[0])
	}
	// Row 1 has only the dwi cell: 100*(4-2)/4 = 50.
	if !almostEqual(perf[1], 50) {
		t.Fatalf("row 1 perf: expected 50, got %v", perf[1])
	}
}

func TestPairwiseDiffMissingReference(t *testing.T) {
	ds := transformFixture(t)
	_, _, err := PairwiseDiff(ds, []string{"m2"}, []string{"t1w"}, "t2w")
	if err == nil || !strings.Contains(err.Error(), "m2_t2w") {
		t.Fatalf("expected missing reference error, got %v", err)
	}
}

func TestStdDev(t *testing.T) {
	ds := transformFixture(t)

	out, perfNames, err := StdDev(ds, []string{"m1"}, []string{"t2w", "t1w", "dwi"})
	if err != nil {
		t.Fatalf("std dev: %v", err)
	}
	if len(perfNames) != 1 || perfNames[0] != "m1_perf_sd" {
		t.Fatalf("unexpected perf names: %v", perfNames)
	}

	perf, _ := out.Column("m1_perf_sd")
	if !almostEqual(perf[0], math.Sqrt(2.0/9.0)) {
		t.Fatalf("row 0 std: expected %v, got %v", math.Sqrt(2.0/9.0), perf[0])
	}
	if !almostEqual(perf[1], math.Sqrt(14.0/9.0)) {
		t.Fatalf("row 1 std: expected %v, got %v", math.Sqrt(14.0/9.0), perf[1])
	}

	// Raw values stay raw in the output.
	raw, _ := out.Column("m1_t1w")
	if raw[0] != 1 || raw[1] != 5 {
		t.Fatalf("std dev mutated raw columns: %v", raw)
	}
}

func TestStdDevMissingColumn(t *testing.T) {
	ds := transformFixture(t)
	_, _, err := StdDev(ds, []string{"m1"}, []string{"flair"})
	if err == nil || !strings.Contains(err.Error(), "m1_flair") {
		t.Fatalf("expected missing column error, got %v", err)
	}
}
