// Package export writes conversations in shareable formats.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/petasbytes/simplemath/memory"
)

// Exporter writes one conversation.
type Exporter interface {
	Export(c memory.Conversation, w io.Writer) error
	Extension() string
}

// NewExporter returns the exporter for format.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, yaml, md)", format)
	}
}

// JSONExporter writes indented JSON, the same shape as the persisted snapshot.
type JSONExporter struct{}

func (e *JSONExporter) Export(c memory.Conversation, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

func (e *JSONExporter) Extension() string { return "json" }

// YAMLExporter writes YAML.
type YAMLExporter struct{}

func (e *YAMLExporter) Export(c memory.Conversation, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	return enc.Encode(c)
}

func (e *YAMLExporter) Extension() string { return "yaml" }
