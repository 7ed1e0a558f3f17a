package config

import (
	"fmt"
	"strings"

	"github.com/1broseidon/mingde/internal/shortcuts"
)

// Explain returns the effective value at a dotted YAML path and where it
// came from, e.g. "theme", "audit.max_files" or "apps.file-viewer".
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}
	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	head, rest, nested := strings.Cut(path, ".")
	if !nested {
		switch head {
		case "width":
			return cfg.Width, nil
		case "height":
			return cfg.Height, nil
		case "scale":
			return cfg.Scale, nil
		case "theme":
			return cfg.Theme, nil
		case "background":
			return cfg.Background, nil
		case "shortcuts":
			return cfg.Shortcuts, nil
		case "shortcut_bindings":
			return cfg.ShortcutTable(), nil
		case "log_level":
			return cfg.LogLevel, nil
		case "snapshot":
			return cfg.Snapshot, nil
		case "audit":
			return cfg.Audit, nil
		case "tty":
			return cfg.TTY, nil
		case "apps":
			return cfg.Apps, nil
		}
		return nil, fmt.Errorf("unknown path: %s", path)
	}

	switch head {
	case "snapshot":
		switch rest {
		case "enabled":
			return cfg.Snapshot.Enabled, nil
		case "path":
			return cfg.Snapshot.Path, nil
		case "hash":
			return cfg.Snapshot.Hash, nil
		}
	case "audit":
		switch rest {
		case "enabled":
			return cfg.Audit.Enabled, nil
		case "level":
			return cfg.Audit.Level, nil
		case "file":
			return cfg.Audit.File, nil
		case "max_size_mb":
			return cfg.Audit.MaxSizeMB, nil
		case "max_files":
			return cfg.Audit.MaxFiles, nil
		}
	case "tty":
		if rest == "downscale" {
			return cfg.TTY.Downscale, nil
		}
	case "shortcut_bindings":
		if keys, ok := cfg.ShortcutTable()[shortcuts.Action(rest)]; ok {
			return keys, nil
		}
	case "apps":
		if perms, ok := cfg.Apps[rest]; ok {
			return perms, nil
		}
		return []string{}, nil
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
