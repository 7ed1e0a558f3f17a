package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/1broseidon/mingde/internal/shortcuts"
	"github.com/1broseidon/mingde/internal/theme"
	"github.com/1broseidon/mingde/internal/wm"
	"gopkg.in/yaml.v3"
)

// SnapshotConfig controls where user state is persisted.
type SnapshotConfig struct {
	Enabled bool `yaml:"enabled"`
	// Path defaults to ~/.config/mingde/snapshot.json.
	Path string `yaml:"path,omitempty"`
	// Hash, when set, must match the snapshot file or it is not loaded.
	Hash string `yaml:"hash,omitempty"`
}

// AuditConfig configures the capability decision log.
type AuditConfig struct {
	// Enabled turns the audit log on/off
	Enabled bool `yaml:"enabled,omitempty"`
	// Level controls verbosity: debug logs applied requests too
	Level string `yaml:"level,omitempty"`
	// File defaults to ~/.local/share/mingde/audit.log
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// TTYConfig sizes the terminal host. Each cell shows two vertically
// stacked pixels of a display scaled down by Downscale.
type TTYConfig struct {
	Downscale int `yaml:"downscale"`
}

const (
	DefaultWidth     = 800
	DefaultHeight    = 600
	DefaultAuditSize = 10
	DefaultAuditKeep = 3
)

// Config is the effective shell configuration.
type Config struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Scale      float64 `yaml:"scale"`
	Theme      string  `yaml:"theme"`
	Background string  `yaml:"background"`
	// Shortcuts is the initial state of the alt+key switch.
	Shortcuts bool `yaml:"shortcuts"`
	// ShortcutBindings replaces the keys of the named actions.
	ShortcutBindings map[string][]string `yaml:"shortcut_bindings,omitempty"`
	LogLevel         string              `yaml:"log_level"`
	Snapshot         SnapshotConfig      `yaml:"snapshot"`
	Audit            AuditConfig         `yaml:"audit,omitempty"`
	TTY              TTYConfig           `yaml:"tty"`
	// Apps grants permissions to apps when they open, by app name.
	Apps map[string][]string `yaml:"apps,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Scale:      1,
		Theme:      string(theme.Standard),
		Background: "#008080",
		Shortcuts:  true,
		LogLevel:   "info",
		Snapshot:   SnapshotConfig{Enabled: true},
		TTY:        TTYConfig{Downscale: 4},
	}
}

// ShortcutTable returns the default bindings with the configured overrides.
func (c *Config) ShortcutTable() shortcuts.Table {
	return shortcuts.Default().Merge(c.ShortcutBindings)
}

// Grants returns the per-app permissions.
func (c *Config) Grants() map[string][]wm.Permission {
	out := make(map[string][]wm.Permission, len(c.Apps))
	for app, perms := range c.Apps {
		for _, p := range perms {
			out[app] = append(out[app], wm.Permission(p))
		}
	}
	return out
}

// State returns the manager state the config starts the shell with.
func (c *Config) State() wm.State {
	th, err := theme.Parse(c.Theme)
	if err != nil {
		th = theme.Standard
	}
	return wm.State{Theme: th, Settings: wm.Settings{Shortcuts: c.Shortcuts}, Background: c.Background}
}

// GetAuditConfig returns the audit config with defaults applied.
func (c *Config) GetAuditConfig() AuditConfig {
	out := c.Audit
	if out.Level == "" {
		out.Level = "info"
	}
	if out.MaxSizeMB <= 0 {
		out.MaxSizeMB = DefaultAuditSize
	}
	if out.MaxFiles <= 0 {
		out.MaxFiles = DefaultAuditKeep
	}
	if out.File == "" {
		if home, err := os.UserHomeDir(); err == nil {
			out.File = filepath.Join(home, ".local", "share", "mingde", "audit.log")
		}
	}
	return out
}

// SnapshotPath returns the configured snapshot path or the default.
func (c *Config) SnapshotPath() (string, error) {
	if c.Snapshot.Path != "" {
		return expandHome(c.Snapshot.Path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mingde", "snapshot.json"), nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments
// from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates and writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return &ValidationError{Path: "width", Err: fmt.Errorf("width and height must be > 0")}
	}
	if c.Scale <= 0 {
		return &ValidationError{Path: "scale", Err: fmt.Errorf("scale must be > 0")}
	}
	if _, err := theme.Parse(c.Theme); err != nil {
		return &ValidationError{Path: "theme", Err: err}
	}
	if _, err := theme.ParseHexColor(c.Background); err != nil {
		return &ValidationError{Path: "background", Err: err}
	}
	if !isValidLevel(c.LogLevel) {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.Audit.Level != "" && !isValidLevel(c.Audit.Level) {
		return &ValidationError{Path: "audit.level", Err: fmt.Errorf("level must be one of: debug, info, warning, error")}
	}
	if c.Audit.MaxSizeMB < 0 {
		return &ValidationError{Path: "audit.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Audit.MaxFiles < 0 {
		return &ValidationError{Path: "audit.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	if c.TTY.Downscale < 1 {
		return &ValidationError{Path: "tty.downscale", Err: fmt.Errorf("downscale must be >= 1")}
	}
	if err := c.ShortcutTable().Validate(); err != nil {
		return &ValidationError{Path: "shortcut_bindings", Err: err}
	}
	for _, app := range sortedKeys(c.Apps) {
		for _, p := range c.Apps[app] {
			switch wm.Permission(p) {
			case wm.PermissionReadAll, wm.PermissionWriteAll:
			default:
				return &ValidationError{Path: "apps." + app, Err: fmt.Errorf("unknown permission %q", p)}
			}
		}
	}
	return nil
}

func isValidLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
