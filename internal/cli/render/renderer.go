package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

type Renderer[T any] interface {
	Render(result T) error
}

// Format selects how command results are written
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates an --output value
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q, expected text, json or yaml", value)
	}
}

// Structured reports whether the format is machine readable
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}

// Envelope is the machine readable form of every command outcome
type Envelope struct {
	Success   bool       `json:"success" yaml:"success"`
	Operation string     `json:"operation" yaml:"operation"`
	Chain     string     `json:"chain,omitempty" yaml:"chain,omitempty"`
	Data      any        `json:"data,omitempty" yaml:"data,omitempty"`
	Error     *ErrorBody `json:"error,omitempty" yaml:"error,omitempty"`
}

// ErrorBody carries a failure kind and message
type ErrorBody struct {
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// WriteStructured encodes v as indented JSON or YAML
func WriteStructured(out io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q is not structured", format)
	}
}
