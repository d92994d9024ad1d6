// Package nifti reads and writes single-file NIfTI-1 volumes.
//
// This package has no segstats-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Volume: a 3-D float64 voxel grid with x varying fastest
//
// Primary entry points:
//   - Load/Decode: parse .nii or .nii.gz images in either byte order,
//     applying header slope/intercept scaling
//   - Save/Encode: emit little-endian float32 images with an identity
//     spatial mapping
//
// Only the subset of the format the segmentation workflow touches is
// implemented: 3-D images, the common integer and float datatypes, and the
// single-file magic. Two-file .hdr/.img pairs are rejected.
package nifti
