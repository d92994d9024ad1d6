// Package cohort discovers prediction/ground-truth mask pairs under a
// prediction folder.
//
// Masks follow the folder naming convention of the evaluation datasets: each
// subject has its own directory containing one *_pred.nii.gz and one
// *_gt.nii.gz file, and the directory name is the subject identifier. Pairing
// is by identifier rather than position, so a missing counterpart anywhere in
// the tree aborts discovery instead of silently shifting the alignment.
package cohort
