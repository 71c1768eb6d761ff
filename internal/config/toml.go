// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/lareport/internal/labels"
	"github.com/verte-zerg/lareport/internal/stats"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Report ReportConfig `toml:"report"`
	Colors ColorConfig  `toml:"colors"`
	Labels LabelConfig  `toml:"labels"`
}

// ReportConfig maps report tuning settings.
type ReportConfig struct {
	Threshold  *int    `toml:"threshold"`
	Top        *int    `toml:"top"`
	Rounding   *string `toml:"rounding"`
	LabelShift *int    `toml:"label-shift"`
	Database   *string `toml:"database"`
}

// ColorConfig maps palette settings.
type ColorConfig struct {
	Keyed        map[string]string `toml:"keyed"`
	KeyedText    map[string]string `toml:"keyed-text"`
	Fallback     *string           `toml:"fallback"`
	FallbackText *string           `toml:"fallback-text"`
	Cyclic       []string          `toml:"cyclic"`
}

// LabelConfig maps label overrides: groups of code -> text plus UI strings.
type LabelConfig struct {
	Groups  map[string]map[string]string `toml:"groups"`
	Strings map[string]string            `toml:"strings"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Settings is the resolved, read-only configuration handed to reports.
type Settings struct {
	Options    stats.Options
	LabelShift int
	Keyed      stats.KeyedPalette
	KeyedText  stats.KeyedPalette
	Cyclic     stats.CyclicPalette
	Catalog    *labels.Catalog
}

// Resolve applies defaults to the file config and validates it.
func (c FileConfig) Resolve() (Settings, error) {
	opts := stats.DefaultOptions()
	if c.Report.Threshold != nil {
		if *c.Report.Threshold < stats.DefaultThreshold {
			return Settings{}, fmt.Errorf("report.threshold must be >= %d", stats.DefaultThreshold)
		}
		opts.Threshold = *c.Report.Threshold
	}
	if c.Report.Top != nil {
		if *c.Report.Top < 0 {
			return Settings{}, fmt.Errorf("report.top must be >= 0")
		}
		opts.Top = *c.Report.Top
	}
	if c.Report.Rounding != nil {
		rounding, err := stats.ParseRounding(*c.Report.Rounding)
		if err != nil {
			return Settings{}, fmt.Errorf("report.rounding: %w", err)
		}
		opts.Rounding = rounding
	}
	shift := stats.DefaultLabelShift
	if c.Report.LabelShift != nil {
		shift = *c.Report.LabelShift
	}

	keyed := stats.DefaultActivityColors()
	for k, v := range c.Colors.Keyed {
		keyed[k] = v
	}
	keyedText := stats.DefaultActivityTextColors()
	for k, v := range c.Colors.KeyedText {
		keyedText[k] = v
	}
	fallback := stats.FallbackColor
	if c.Colors.Fallback != nil {
		fallback = *c.Colors.Fallback
	}
	fallbackText := stats.FallbackTextColor
	if c.Colors.FallbackText != nil {
		fallbackText = *c.Colors.FallbackText
	}
	cyclic := stats.DefaultBarColors()
	if len(c.Colors.Cyclic) > 0 {
		cyclic = c.Colors.Cyclic
	}

	return Settings{
		Options:    opts,
		LabelShift: shift,
		Keyed:      stats.NewKeyedPalette(keyed, fallback),
		KeyedText:  stats.NewKeyedPalette(keyedText, fallbackText),
		Cyclic:     stats.NewCyclicPalette(cyclic),
		Catalog:    labels.NewCatalog(c.Labels.Groups, c.Labels.Strings),
	}, nil
}

// DefaultSettings returns settings with no file overrides.
func DefaultSettings() Settings {
	s, err := FileConfig{}.Resolve()
	if err != nil {
		// Defaults are static and always valid.
		panic(err)
	}
	return s
}
