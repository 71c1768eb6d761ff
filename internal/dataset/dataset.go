// Package dataset decodes import files into store courses.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/lareport/internal/store"
)

// Load reads a dataset file, picking the decoder by extension.
func Load(path string) (store.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return store.Dataset{}, fmt.Errorf("failed to read dataset: %w", err)
	}
	return Decode(data, strings.ToLower(filepath.Ext(path)))
}

// Decode parses dataset bytes in the format named by ext (".yaml", ".yml", ".json" or ".toml").
func Decode(data []byte, ext string) (store.Dataset, error) {
	var ds store.Dataset
	switch ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&ds); err != nil {
			return store.Dataset{}, fmt.Errorf("failed to decode yaml dataset: %w", err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&ds); err != nil {
			return store.Dataset{}, fmt.Errorf("failed to decode json dataset: %w", err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &ds)
		if err != nil {
			return store.Dataset{}, fmt.Errorf("failed to decode toml dataset: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return store.Dataset{}, fmt.Errorf("unknown dataset keys: %v", undecoded)
		}
	default:
		return store.Dataset{}, fmt.Errorf("unsupported dataset format %q", ext)
	}
	for _, c := range ds.Courses {
		if err := c.Validate(); err != nil {
			return store.Dataset{}, err
		}
	}
	return ds, nil
}
