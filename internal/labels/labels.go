// Package labels maps opaque codes to display text.
package labels

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ErrUnknownKey is returned when a code has no display text.
var ErrUnknownKey = errors.New("unknown label key")

// Groups resolved through locale data rather than the catalog tables.
const (
	GroupLanguage = "lang"
	GroupCountry  = "country"
)

// Catalog resolves codes per group and UI strings. It is read-only after construction.
type Catalog struct {
	groups  map[string]map[string]string
	strings map[string]string
}

// NewCatalog builds a catalog from the defaults plus overrides.
func NewCatalog(groupOverrides map[string]map[string]string, stringOverrides map[string]string) *Catalog {
	c := &Catalog{
		groups:  defaultGroups(),
		strings: defaultStrings(),
	}
	for group, entries := range groupOverrides {
		if _, ok := c.groups[group]; !ok {
			c.groups[group] = map[string]string{}
		}
		for code, text := range entries {
			c.groups[group][code] = text
		}
	}
	for key, text := range stringOverrides {
		c.strings[key] = text
	}
	return c
}

// Label returns the display text of code within group.
func (c *Catalog) Label(group, code string) (string, error) {
	if entries, ok := c.groups[group]; ok {
		if text, ok := entries[code]; ok {
			return text, nil
		}
	}
	switch group {
	case GroupLanguage:
		if name := languageName(code); name != "" {
			return name, nil
		}
	case GroupCountry:
		if name := countryName(code); name != "" {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %s/%s", ErrUnknownKey, group, code)
}

// Resolver binds Label to one group.
func (c *Catalog) Resolver(group string) func(string) (string, error) {
	return func(code string) (string, error) {
		return c.Label(group, code)
	}
}

// String returns a UI string, or the key itself when none is defined.
func (c *Catalog) String(key string) string {
	if text, ok := c.strings[key]; ok {
		return text
	}
	return key
}

// Strings returns UI strings for several keys.
func (c *Catalog) Strings(keys ...string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = c.String(k)
	}
	return out
}

func languageName(code string) string {
	code = strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return display.English.Tags().Name(tag)
}

func countryName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	region, err := language.ParseRegion(code)
	if err != nil {
		return ""
	}
	return display.English.Regions().Name(region)
}
