package evaluation

import "testing"

func TestValidDataset(t *testing.T) {
	for _, name := range Datasets() {
		if !ValidDataset(name) {
			t.Fatalf("expected %s to be valid", name)
		}
	}
	if !ValidDataset("  SCI-T2W ") {
		t.Fatal("expected case-insensitive match")
	}
	if ValidDataset("brain-t1w") {
		t.Fatal("expected rejection of unknown dataset")
	}
}
