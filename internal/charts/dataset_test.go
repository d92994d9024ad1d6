package charts

import (
	"math"
	"strings"
	"testing"
)

const sampleCSV = `subject,m1_t2w,m1_t1w
sub-01,2,1
sub-02,4,5
`

func TestReadCSV(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if got := ds.Subjects(); len(got) != 2 || got[0] != "sub-01" || got[1] != "sub-02" {
		t.Fatalf("unexpected subjects: %v", got)
	}
	if got := ds.Columns(); len(got) != 2 || got[0] != "m1_t2w" || got[1] != "m1_t1w" {
		t.Fatalf("unexpected columns: %v", got)
	}
	values, ok := ds.Column("m1_t1w")
	if !ok || len(values) != 2 || values[0] != 1 || values[1] != 5 {
		t.Fatalf("unexpected m1_t1w values: %v (present %v)", values, ok)
	}
}

func TestReadCSVEmptyCellIsNaN(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("subject,m1_t2w\nsub-01,\n"))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	values, _ := ds.Column("m1_t2w")
	if !math.IsNaN(values[0]) {
		t.Fatalf("expected NaN for empty cell, got %v", values[0])
	}
}

func TestReadCSVRejectsDuplicateColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("subject,m1_t2w,m1_t2w\nsub-01,1,2\n"))
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate column error, got %v", err)
	}
}

func TestReadCSVRejectsNoRows(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("subject,m1_t2w\n")); err == nil {
		t.Fatal("expected error for empty dataset")
	}
}

func TestReadCSVRejectsBadValue(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("subject,m1_t2w\nsub-01,abc\n"))
	if err == nil || !strings.Contains(err.Error(), "m1_t2w") {
		t.Fatalf("expected named cell error, got %v", err)
	}
}

func TestColumnReturnsCopy(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	values, _ := ds.Column("m1_t2w")
	values[0] = 99
	fresh, _ := ds.Column("m1_t2w")
	if fresh[0] != 2 {
		t.Fatalf("mutating a returned column leaked into the dataset: %v", fresh)
	}
}

func TestAddColumn(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if err := ds.AddColumn("m1_perf", []float64{1, 2}); err != nil {
		t.Fatalf("add column: %v", err)
	}
	if err := ds.AddColumn("m1_perf", []float64{1, 2}); err == nil {
		t.Fatal("expected duplicate column error")
	}
	if err := ds.AddColumn("short", []float64{1}); err == nil {
		t.Fatal("expected length mismatch error")
	}
	if cols := ds.Columns(); cols[len(cols)-1] != "m1_perf" {
		t.Fatalf("expected m1_perf appended, got %v", cols)
	}
}

func TestCloneIsolation(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	clone := ds.Clone()
	if err := clone.AddColumn("extra", []float64{0, 0}); err != nil {
		t.Fatalf("add column to clone: %v", err)
	}
	if _, ok := ds.Column("extra"); ok {
		t.Fatal("clone mutation leaked into the original")
	}
}
