package cohort

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Suffixes that mark the two mask roles inside a prediction folder.
const (
	PredictionSuffix = "_pred.nii.gz"
	ReferenceSuffix  = "_gt.nii.gz"
)

// Pair joins one subject's prediction and reference masks.
type Pair struct {
	Subject        string
	PredictionPath string
	ReferencePath  string
}

// Discover walks root for prediction and reference masks and pairs them by
// subject. The subject identifier is the name of the directory containing
// the file. Pairing is strict: every prediction needs exactly one reference
// with the same identifier and vice versa, and duplicates are errors. Pairs
// come back sorted by subject.
func Discover(root string) ([]Pair, error) {
	predictions := make(map[string]string)
	references := make(map[string]string)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		switch {
		case strings.HasSuffix(name, PredictionSuffix):
			return record(predictions, "prediction", path)
		case strings.HasSuffix(name, ReferenceSuffix):
			return record(references, "ground truth", path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan prediction folder: %w", err)
	}

	if err := checkComplete(predictions, references); err != nil {
		return nil, err
	}

	pairs := make([]Pair, 0, len(predictions))
	for subject, predPath := range predictions {
		pairs = append(pairs, Pair{
			Subject:        subject,
			PredictionPath: predPath,
			ReferencePath:  references[subject],
		})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Subject < pairs[j].Subject })
	return pairs, nil
}

func record(seen map[string]string, role, path string) error {
	subject := Subject(path)
	if existing, ok := seen[subject]; ok {
		return fmt.Errorf("duplicate %s for subject %s (%s and %s)", role, subject, existing, path)
	}
	seen[subject] = path
	return nil
}

// Subject returns the identifier for a mask path: the name of the directory
// holding the file.
func Subject(path string) string {
	return filepath.Base(filepath.Dir(path))
}

func checkComplete(predictions, references map[string]string) error {
	var problems []string
	for _, subject := range sortedKeys(predictions) {
		if _, ok := references[subject]; !ok {
			problems = append(problems, fmt.Sprintf("subject %s has a prediction but no ground truth", subject))
		}
	}
	for _, subject := range sortedKeys(references) {
		if _, ok := predictions[subject]; !ok {
			problems = append(problems, fmt.Sprintf("subject %s has a ground truth but no prediction", subject))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("pairing mismatch: %s", strings.Join(problems, "; "))
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
