// Package preflight provides readiness checks for the external pieces the
// evaluation workflow depends on: writable working directories, a usable
// Anima analyzer binary, and the run-history store.
//
// The checks run in two contexts:
//   - The evaluation runner probes the analyzer before scoring a cohort so a
//     broken installation fails fast instead of partway through.
//   - The CLI "segstats status" command uses RunAll to display readiness.
package preflight
