package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeAnima(); err != nil {
		return err
	}
	c.normalizeMetrics()
	c.normalizeCharts()
	if err := c.normalizeResults(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAnima() error {
	var err error
	if strings.TrimSpace(c.Anima.ConfigPath) == "" {
		c.Anima.ConfigPath = defaultAnimaConfigPath
	}
	if c.Anima.ConfigPath, err = expandPath(c.Anima.ConfigPath); err != nil {
		return fmt.Errorf("anima.config_path: %w", err)
	}
	c.Anima.BinariesDir = strings.TrimSpace(c.Anima.BinariesDir)
	if c.Anima.BinariesDir == "" {
		if value, ok := os.LookupEnv("SEGSTATS_ANIMA_DIR"); ok {
			c.Anima.BinariesDir = strings.TrimSpace(value)
		}
	}
	if c.Anima.BinariesDir != "" {
		if c.Anima.BinariesDir, err = expandPath(c.Anima.BinariesDir); err != nil {
			return fmt.Errorf("anima.binaries_dir: %w", err)
		}
	}
	if c.Anima.EvalTimeout <= 0 {
		c.Anima.EvalTimeout = defaultEvalTimeout
	}
	return nil
}

func (c *Config) normalizeMetrics() {
	c.Metrics.Dataset = strings.ToLower(strings.TrimSpace(c.Metrics.Dataset))
}

func (c *Config) normalizeCharts() {
	c.Charts.ReferenceContrast = strings.ToLower(strings.TrimSpace(c.Charts.ReferenceContrast))
	if c.Charts.ReferenceContrast == "" {
		c.Charts.ReferenceContrast = defaultReferenceContrast
	}
	c.Charts.Methods = dedupeLower(c.Charts.Methods)
	c.Charts.Contrasts = dedupeLower(c.Charts.Contrasts)
	c.Charts.Format = strings.ToLower(strings.TrimSpace(c.Charts.Format))
	if c.Charts.Format == "" {
		c.Charts.Format = defaultChartFormat
	}
}

func (c *Config) normalizeResults() error {
	var err error
	if strings.TrimSpace(c.Results.Path) == "" {
		c.Results.Path = defaultResultsPath
	}
	if c.Results.Path, err = expandPath(c.Results.Path); err != nil {
		return fmt.Errorf("results.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func dedupeLower(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
