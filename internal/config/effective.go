package config

import (
	"fmt"
	"maps"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw over DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	set(&cfg.Width, raw.Width)
	set(&cfg.Height, raw.Height)
	set(&cfg.Scale, raw.Scale)
	set(&cfg.Theme, raw.Theme)
	set(&cfg.Background, raw.Background)
	set(&cfg.Shortcuts, raw.Shortcuts)
	set(&cfg.LogLevel, raw.LogLevel)

	set(&cfg.Snapshot.Enabled, raw.Snapshot.Enabled)
	set(&cfg.Snapshot.Path, raw.Snapshot.Path)
	set(&cfg.Snapshot.Hash, raw.Snapshot.Hash)

	set(&cfg.Audit.Enabled, raw.Audit.Enabled)
	set(&cfg.Audit.Level, raw.Audit.Level)
	set(&cfg.Audit.File, raw.Audit.File)
	set(&cfg.Audit.MaxSizeMB, raw.Audit.MaxSizeMB)
	set(&cfg.Audit.MaxFiles, raw.Audit.MaxFiles)

	set(&cfg.TTY.Downscale, raw.TTY.Downscale)

	for name, keys := range raw.ShortcutBindings {
		if len(keys) == 0 {
			return nil, &ValidationError{Path: "shortcut_bindings." + name, Err: fmt.Errorf("no keys given")}
		}
	}
	if len(raw.ShortcutBindings) > 0 {
		cfg.ShortcutBindings = maps.Clone(raw.ShortcutBindings)
	}
	if len(raw.Apps) > 0 {
		cfg.Apps = maps.Clone(raw.Apps)
	}
	return cfg, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
