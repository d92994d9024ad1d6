// Package charts turns per-subject cross-sectional area (CSA) tables into
// method-comparison figures.
//
// The input is a CSV with one row per subject and one column per
// method/contrast combination (named <method>_<contrast>). Two derived
// views drive the figures: pairwise percentage difference against a
// reference contrast, and per-subject variability across contrasts. Each
// figure is a box-plot distribution per method with a fixed family palette.
package charts
