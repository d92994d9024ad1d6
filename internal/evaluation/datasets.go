package evaluation

import "strings"

// Dataset identifiers recognized by the scoring workflow. The run log file
// and the results store key on these.
const (
	DatasetSCIT2w            = "sci-t2w"
	DatasetRadioculopathyEPI = "radioculopathy-epi"
	DatasetMSMP2RAGE         = "ms-mp2rage"
)

// Datasets returns the recognized dataset identifiers.
func Datasets() []string {
	return []string{DatasetSCIT2w, DatasetRadioculopathyEPI, DatasetMSMP2RAGE}
}

// NormalizeDataset lowercases and trims a dataset identifier.
func NormalizeDataset(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidDataset reports whether name is a recognized dataset identifier.
func ValidDataset(name string) bool {
	name = NormalizeDataset(name)
	for _, dataset := range Datasets() {
		if name == dataset {
			return true
		}
	}
	return false
}
