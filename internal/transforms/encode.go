package transforms

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Pipeline bundles a named split with its steps for export.
type Pipeline struct {
	Split string `json:"split" yaml:"split"`
	Steps []Step `json:"steps" yaml:"steps"`
}

// EncodeJSON writes the pipeline as indented JSON.
func EncodeJSON(w io.Writer, p Pipeline) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode pipeline json: %w", err)
	}
	return nil
}

// EncodeYAML writes the pipeline as YAML.
func EncodeYAML(w io.Writer, p Pipeline) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		_ = enc.Close()
		return fmt.Errorf("encode pipeline yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode pipeline yaml: %w", err)
	}
	return nil
}
