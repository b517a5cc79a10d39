// Package render turns slot values into text for the terminal, the web pages
// and command output.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/darc-project/darc/internal/analysis"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding for command line results.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates an --output value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// Slot renders a value the way the dashboard panels do: text slots verbatim,
// everything else as JSON indented by two spaces.
func Slot(kind analysis.Kind, raw json.RawMessage) string {
	if kind == analysis.KindText {
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			return text
		}
	}
	return PrettyJSON(raw)
}

// PrettyJSON indents raw; invalid input is returned unchanged.
func PrettyJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// YAML converts a JSON value to YAML.
func YAML(raw json.RawMessage) (string, error) {
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("failed to decode value: %w", err)
	}
	out, err := yaml.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to encode yaml: %w", err)
	}
	return string(out), nil
}

// As renders a slot value in the requested format.
func As(format Format, kind analysis.Kind, raw json.RawMessage) (string, error) {
	switch format {
	case FormatJSON:
		return PrettyJSON(raw), nil
	case FormatYAML:
		return YAML(raw)
	default:
		return Slot(kind, raw), nil
	}
}
