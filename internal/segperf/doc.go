// Package segperf drives the animaSegPerfAnalyzer binary.
//
// The analyzer compares a binary prediction mask against a reference mask and
// writes an XML report of segmentation and surface-distance metrics. This
// package owns the invocation contract (flags, report naming, exit-status
// checking) and exposes an Executor seam so tests can run without the binary
// installed.
package segperf
