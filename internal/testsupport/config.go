package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"segstats/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Anima.ConfigPath = filepath.Join(base, "anima-config.txt")
	cfgVal.Metrics.Dataset = "sci-t2w"
	cfgVal.Results.Path = filepath.Join(base, "results.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithAnalyzerStub writes an executable analyzer stub printing the given
// output and points the config's binaries directory at it.
func WithAnalyzerStub(output string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := "#!/bin/sh\necho \"" + output + "\"\nexit 0\n"
		target := filepath.Join(binDir, b.cfg.AnalyzerBinary())
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			b.t.Fatalf("write analyzer stub: %v", err)
		}
		b.cfg.Anima.BinariesDir = binDir
	}
}

// WithDataset overrides the default dataset on the test config.
func WithDataset(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metrics.Dataset = name
	}
}

// WithResultsDisabled turns off run-history recording.
func WithResultsDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Results.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
