package report

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Entry is one named metric value from an analyzer report. Values may be
// infinite or NaN; the analyzer emits those for degenerate geometry and the
// aggregation layer decides what to do with them.
type Entry struct {
	Name  string
	Value float64
}

// Report is the parsed form of one per-subject analyzer XML document.
type Report struct {
	Subject string
	Path    string
	Entries []Entry
}

// When the reference mask is empty the analyzer only reports the two tested
// lesion counters, so an entry count of exactly two identifies the case.
const emptyGroundTruthEntries = 2

// EmptyGroundTruth reports whether the subject had an empty reference mask.
func (r *Report) EmptyGroundTruth() bool {
	return len(r.Entries) == emptyGroundTruthEntries
}

// Value returns the named entry value and whether it was present.
func (r *Report) Value(name string) (float64, bool) {
	for _, entry := range r.Entries {
		if entry.Name == name {
			return entry.Value, true
		}
	}
	return 0, false
}

type xmlDocument struct {
	XMLName xml.Name
	Entries []xmlEntry `xml:",any"`
}

type xmlEntry struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// Parse decodes an analyzer report: a flat document whose children each
// carry a name attribute and a scalar text value.
func Parse(r io.Reader) (*Report, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}

	entries := make([]Entry, 0, len(doc.Entries))
	for _, raw := range doc.Entries {
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			return nil, errors.New("report entry missing name attribute")
		}
		value, err := parseValue(raw.Value)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", name, err)
		}
		entries = append(entries, Entry{Name: name, Value: value})
	}
	return &Report{Entries: entries}, nil
}

// ParseFile reads a report from disk, labeling it with the subject derived
// from the file name.
func ParseFile(path string) (*Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer file.Close()

	parsed, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	parsed.Subject = SubjectFromPath(path)
	parsed.Path = path
	return parsed, nil
}

// parseValue accepts ordinary floats plus the inf/nan spellings the analyzer
// produces, including signed NaN which strconv rejects.
func parseValue(text string) (float64, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, errors.New("empty value")
	}
	if value, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return value, nil
	}
	if strings.EqualFold(strings.TrimLeft(trimmed, "+-"), "nan") {
		return math.NaN(), nil
	}
	return 0, fmt.Errorf("unparseable value %q", trimmed)
}

// Collect lists the XML reports in a stats directory in name order.
func Collect(dir string) ([]string, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read stats directory: %w", err)
	}
	paths := make([]string, 0, len(items))
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(item.Name()), ".xml") {
			continue
		}
		paths = append(paths, filepath.Join(dir, item.Name()))
	}
	return paths, nil
}

// SubjectFromPath derives the subject label from a report file name,
// stripping the analyzer's _global suffix.
func SubjectFromPath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".xml")
	return strings.TrimSuffix(name, "_global")
}
