package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// EncodeJSON writes the summary as indented JSON.
func EncodeJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding report as JSON: %w", err)
	}
	return nil
}

// EncodeYAML writes the summary as a YAML document.
func EncodeYAML(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(s); err != nil {
		enc.Close()
		return fmt.Errorf("encoding report as YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding report as YAML: %w", err)
	}
	return nil
}
