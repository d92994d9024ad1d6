package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAnima(); err != nil {
		return err
	}
	if err := c.validateCharts(); err != nil {
		return err
	}
	if err := c.validateResults(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAnima() error {
	if strings.TrimSpace(c.Anima.ConfigPath) == "" {
		return errors.New("anima.config_path must be set")
	}
	if c.Anima.EvalTimeout <= 0 {
		return errors.New("anima.eval_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateCharts() error {
	if strings.TrimSpace(c.Charts.ReferenceContrast) == "" {
		return errors.New("charts.reference_contrast must be set")
	}
	switch c.Charts.Format {
	case "png", "svg", "pdf":
	default:
		return fmt.Errorf("charts.format must be png, svg, or pdf (got %q)", c.Charts.Format)
	}
	return nil
}

func (c *Config) validateResults() error {
	if c.Results.Enabled && strings.TrimSpace(c.Results.Path) == "" {
		return errors.New("results.path must be set when results.enabled is true")
	}
	return nil
}
