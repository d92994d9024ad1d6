// Package mask converts soft segmentation volumes into binary label masks.
package mask

import (
	"segstats/internal/nifti"
)

// Threshold is the cutoff applied to soft predictions. Voxels must exceed it
// strictly; a voxel equal to the threshold maps to background.
const Threshold = 0.5

// Binarize returns a new volume with every voxel mapped to 1 when it exceeds
// Threshold and 0 otherwise. The input volume is not modified.
func Binarize(vol *nifti.Volume) *nifti.Volume {
	out := nifti.NewVolume(vol.NX, vol.NY, vol.NZ)
	for i, value := range vol.Data {
		if value > Threshold {
			out.Data[i] = 1
		}
	}
	return out
}

// Foreground counts the voxels labeled 1 in a binary mask.
func Foreground(vol *nifti.Volume) int {
	count := 0
	for _, value := range vol.Data {
		if value > 0 {
			count++
		}
	}
	return count
}
