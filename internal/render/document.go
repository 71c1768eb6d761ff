// Package render turns report block sequences into text, JSON, YAML and PDF.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/lareport/internal/model"
)

// Document is one rendered report page.
type Document struct {
	Report string            `json:"report" yaml:"report"`
	Page   string            `json:"page,omitempty" yaml:"page,omitempty"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Blocks []model.Block     `json:"blocks" yaml:"blocks"`
}

// Title returns a human-readable heading for the document.
func (d Document) Title() string {
	var b strings.Builder
	b.WriteString(d.Report)
	if d.Page != "" {
		b.WriteString(" / ")
		b.WriteString(d.Page)
	}
	if course, ok := d.Params["course"]; ok {
		fmt.Fprintf(&b, " (course %s)", course)
	}
	return b.String()
}

// WriteJSON encodes the document as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// WriteYAML encodes the document as YAML.
func WriteYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// FormatRef describes a link target as the CLI invocation that opens it.
func FormatRef(ref *model.Ref) string {
	if ref == nil {
		return ""
	}
	parts := []string{"report", ref.Report}
	if ref.Page != "" {
		parts = append(parts, "--page", ref.Page)
	}
	keys := make([]string, 0, len(ref.Params))
	for k := range ref.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, "--"+k, ref.Params[k])
	}
	return strings.Join(parts, " ")
}
