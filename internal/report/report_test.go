package report

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleReport = `<?xml version="1.0" encoding="UTF-8"?>
<image name="sub-01">
  <measure name="Jaccard">0.820513</measure>
  <measure name="Dice">0.901408</measure>
  <measure name="Sensitivity">0.914286</measure>
  <measure name="Specificity">0.999988</measure>
  <measure name="HausdorffDistance">12.3</measure>
</image>
`

func TestParse(t *testing.T) {
	parsed, err := Parse(strings.NewReader(sampleReport))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(parsed.Entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(parsed.Entries))
	}
	if parsed.Entries[0].Name != "Jaccard" {
		t.Fatalf("expected first entry Jaccard, got %s", parsed.Entries[0].Name)
	}
	if dice, ok := parsed.Value("Dice"); !ok || dice != 0.901408 {
		t.Fatalf("expected Dice 0.901408, got %v (present %v)", dice, ok)
	}
	if parsed.EmptyGroundTruth() {
		t.Fatal("full report flagged as empty ground truth")
	}
}

func TestParseSpecialValues(t *testing.T) {
	doc := `<image>
  <measure name="HausdorffDistance">inf</measure>
  <measure name="SurfaceDistance">-inf</measure>
  <measure name="PPV">nan</measure>
  <measure name="NPV">-nan</measure>
</image>`
	parsed, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !math.IsInf(parsed.Entries[0].Value, 1) {
		t.Fatalf("expected +Inf, got %v", parsed.Entries[0].Value)
	}
	if !math.IsInf(parsed.Entries[1].Value, -1) {
		t.Fatalf("expected -Inf, got %v", parsed.Entries[1].Value)
	}
	if !math.IsNaN(parsed.Entries[2].Value) || !math.IsNaN(parsed.Entries[3].Value) {
		t.Fatalf("expected NaN values, got %v and %v", parsed.Entries[2].Value, parsed.Entries[3].Value)
	}
}

func TestParseEmptyGroundTruth(t *testing.T) {
	doc := `<image>
  <measure name="NbTestedLesions">0</measure>
  <measure name="VolTestedLesions">0</measure>
</image>`
	parsed, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.EmptyGroundTruth() {
		t.Fatal("two-entry report should flag empty ground truth")
	}
}

func TestParseRejectsMalformedValue(t *testing.T) {
	doc := `<image><measure name="Dice">abc</measure></image>`
	if _, err := Parse(strings.NewReader(doc)); err == nil || !strings.Contains(err.Error(), "Dice") {
		t.Fatalf("expected named parse error, got %v", err)
	}
}

func TestParseRejectsUnnamedEntry(t *testing.T) {
	doc := `<image><measure>1.0</measure></image>`
	if _, err := Parse(strings.NewReader(doc)); err == nil {
		t.Fatal("expected error for unnamed entry")
	}
}

func TestParseFileSetsSubject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub-01_ses-02_global.xml")
	if err := os.WriteFile(path, []byte(sampleReport), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}

	parsed, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse file: %v", err)
	}
	if parsed.Subject != "sub-01_ses-02" {
		t.Fatalf("expected subject sub-01_ses-02, got %s", parsed.Subject)
	}
	if parsed.Path != path {
		t.Fatalf("expected path %s, got %s", path, parsed.Path)
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_global.xml", "a_global.xml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("<image/>"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.xml"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	paths, err := Collect(dir)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 reports, got %d (%v)", len(paths), paths)
	}
	if filepath.Base(paths[0]) != "a_global.xml" || filepath.Base(paths[1]) != "b_global.xml" {
		t.Fatalf("expected name order, got %v", paths)
	}
}

func TestSubjectFromPath(t *testing.T) {
	cases := map[string]string{
		"/stats/sub-01_global.xml": "sub-01",
		"/stats/007_global.xml":    "007",
		"/stats/plain.xml":         "plain",
	}
	for path, want := range cases {
		if got := SubjectFromPath(path); got != want {
			t.Fatalf("subject for %s: expected %s, got %s", path, want, got)
		}
	}
}
