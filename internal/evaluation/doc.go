// Package evaluation runs the end-to-end scoring workflow: discover subject
// mask pairs, binarize them, invoke the Anima analyzer per subject, and
// aggregate the per-subject XML reports into cohort statistics.
//
// A run is single-flight per prediction folder (flock on the stats
// directory) and carries a UUID so the results store can be queried later.
package evaluation
