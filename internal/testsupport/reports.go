package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ReportEntry is one raw metric entry for a canned analyzer report. Value is
// written verbatim so tests can exercise the inf and nan spellings.
type ReportEntry struct {
	Name  string
	Value string
}

// WriteReport writes an analyzer-style XML report to path.
func WriteReport(t testing.TB, path string, entries ...ReportEntry) {
	t.Helper()

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<image name=\"segmentation\">\n")
	for _, entry := range entries {
		b.WriteString("  <measure name=\"")
		b.WriteString(entry.Name)
		b.WriteString("\">")
		b.WriteString(entry.Value)
		b.WriteString("</measure>\n")
	}
	b.WriteString("</image>\n")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write report %s: %v", path, err)
	}
}
