package preflight

import (
	"context"

	"segstats/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every readiness check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckAnalyzer(ctx, cfg.Anima, cfg.AnalyzerBinary()))

	if cfg.Results.Enabled {
		results = append(results, CheckResultsStore(cfg.Results.Path))
	}

	return results
}
