package config

import (
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"
)

// IncludeList accepts a single path or a list of paths:
//
//	include: base.yaml
//	include: [base.yaml, conf.d]
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = IncludeList{value.Value}
	case yaml.SequenceNode:
		out := make(IncludeList, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
	return nil
}

// RawConfig is one config file as written. Nil fields were not set and
// leave the value below them untouched.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Width            *int                `yaml:"width"`
	Height           *int                `yaml:"height"`
	Scale            *float64            `yaml:"scale"`
	Theme            *string             `yaml:"theme"`
	Background       *string             `yaml:"background"`
	Shortcuts        *bool               `yaml:"shortcuts"`
	ShortcutBindings map[string][]string `yaml:"shortcut_bindings"`
	LogLevel         *string             `yaml:"log_level"`
	Snapshot         RawSnapshot         `yaml:"snapshot"`
	Audit            RawAudit            `yaml:"audit"`
	TTY              RawTTY              `yaml:"tty"`
	Apps             map[string][]string `yaml:"apps"`
}

type RawSnapshot struct {
	Enabled *bool   `yaml:"enabled"`
	Path    *string `yaml:"path"`
	Hash    *string `yaml:"hash"`
}

type RawAudit struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawTTY struct {
	Downscale *int `yaml:"downscale"`
}

// merge lays overlay over c. Map entries merge per key.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	out.Include = nil

	pick(&out.Width, overlay.Width)
	pick(&out.Height, overlay.Height)
	pick(&out.Scale, overlay.Scale)
	pick(&out.Theme, overlay.Theme)
	pick(&out.Background, overlay.Background)
	pick(&out.Shortcuts, overlay.Shortcuts)
	pick(&out.LogLevel, overlay.LogLevel)

	pick(&out.Snapshot.Enabled, overlay.Snapshot.Enabled)
	pick(&out.Snapshot.Path, overlay.Snapshot.Path)
	pick(&out.Snapshot.Hash, overlay.Snapshot.Hash)

	pick(&out.Audit.Enabled, overlay.Audit.Enabled)
	pick(&out.Audit.Level, overlay.Audit.Level)
	pick(&out.Audit.File, overlay.Audit.File)
	pick(&out.Audit.MaxSizeMB, overlay.Audit.MaxSizeMB)
	pick(&out.Audit.MaxFiles, overlay.Audit.MaxFiles)

	pick(&out.TTY.Downscale, overlay.TTY.Downscale)

	out.ShortcutBindings = mergeLists(c.ShortcutBindings, overlay.ShortcutBindings)
	out.Apps = mergeLists(c.Apps, overlay.Apps)
	return out
}

func pick[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}

func mergeLists(base, overlay map[string][]string) map[string][]string {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}
	out := make(map[string][]string, len(base)+len(overlay))
	maps.Copy(out, base)
	maps.Copy(out, overlay)
	return out
}
