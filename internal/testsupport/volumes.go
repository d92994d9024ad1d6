package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"segstats/internal/nifti"
)

// WriteVolume saves a single-frame volume with the provided voxel values
// (x varying fastest). Compression follows the path suffix.
func WriteVolume(t testing.TB, path string, nx, ny, nz int, voxels []float64) {
	t.Helper()

	vol := nifti.NewVolume(nx, ny, nz)
	if len(voxels) != vol.Len() {
		t.Fatalf("volume %s: %d voxels provided for %dx%dx%d", path, len(voxels), nx, ny, nz)
	}
	copy(vol.Data, voxels)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := nifti.Save(path, vol); err != nil {
		t.Fatalf("save volume %s: %v", path, err)
	}
}
