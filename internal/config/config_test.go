package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/mingde/internal/theme"
	"github.com/1broseidon/mingde/internal/wm"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	st := cfg.State()
	if st.Theme != theme.Standard || !st.Settings.Shortcuts || st.Background != "#008080" {
		t.Fatalf("unexpected default state %+v", st)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Width != DefaultWidth || len(res.Files) != 0 {
		t.Fatalf("expected defaults, got %+v files=%v", res.Config, res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Theme != string(theme.Standard) {
		t.Fatalf("expected theme %q, got %q", theme.Standard, res.Config.Theme)
	}
}

func TestLoadFromPath_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"width: 1024",
		"scale: 2",
		"theme: Night",
		"shortcuts: false",
		"shortcut_bindings:",
		"  close-window: [x]",
		"audit:",
		"  enabled: true",
		"  max_files: 5",
		"apps:",
		"  file-viewer: [read_all_file_system]",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Width != 1024 || cfg.Height != DefaultHeight || cfg.Scale != 2 {
		t.Fatalf("unexpected size %dx%d@%v", cfg.Width, cfg.Height, cfg.Scale)
	}
	if cfg.State().Theme != theme.Night || cfg.State().Settings.Shortcuts {
		t.Fatalf("unexpected state %+v", cfg.State())
	}
	if got := cfg.ShortcutTable()["close-window"]; len(got) != 1 || got[0] != "x" {
		t.Fatalf("expected close-window override, got %v", got)
	}
	if got := cfg.ShortcutTable()["fullscreen-toggle-window"]; len(got) == 0 {
		t.Fatalf("expected untouched bindings to keep defaults")
	}
	audit := cfg.GetAuditConfig()
	if !audit.Enabled || audit.MaxFiles != 5 || audit.MaxSizeMB != DefaultAuditSize || audit.Level != "info" {
		t.Fatalf("unexpected audit config %+v", audit)
	}
	grants := cfg.Grants()["file-viewer"]
	if len(grants) != 1 || grants[0] != wm.PermissionReadAll {
		t.Fatalf("unexpected grants %v", grants)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "width: 800\ntheme: Sparkly\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "theme" || verr.Source.Line != 2 {
		t.Fatalf("unexpected error context %+v", verr)
	}
	if !strings.HasPrefix(err.Error(), path+":2:") {
		t.Fatalf("expected file:line:col prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, "width"},
		{"negative scale", func(c *Config) { c.Scale = -1 }, "scale"},
		{"bad background", func(c *Config) { c.Background = "teal" }, "background"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad audit level", func(c *Config) { c.Audit.Level = "loud" }, "audit.level"},
		{"zero downscale", func(c *Config) { c.TTY.Downscale = 0 }, "tty.downscale"},
		{"unknown action", func(c *Config) { c.ShortcutBindings = map[string][]string{"fly": {"z"}} }, "shortcut_bindings"},
		{"unknown permission", func(c *Config) { c.Apps = map[string][]string{"about": {"root"}} }, "apps.about"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			var verr *ValidationError
			if err := cfg.Validate(); !errors.As(err, &verr) || verr.Path != tt.path {
				t.Fatalf("expected validation error at %q, got %v", tt.path, err)
			}
		})
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(configD, "10-base.yaml"), "width: 640\nheight: 480\n")
	writeFile(t, filepath.Join(configD, "20-override.yaml"), "width: 700\n")

	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "include:\n  - config.d\nheight: 500\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Width != 700 || res.Config.Height != 500 {
		t.Fatalf("expected 700x500, got %dx%d", res.Config.Width, res.Config.Height)
	}
	if len(res.Files) != 3 || !strings.HasSuffix(res.Files[2], "config.yaml") {
		t.Fatalf("unexpected load order %v", res.Files)
	}

	_, src, err := Explain(res, "width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if src.Kind != SourceFile || !strings.HasSuffix(src.File, "20-override.yaml") {
		t.Fatalf("expected width from 20-override.yaml, got %+v", src)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, filepath.Join(dir, "b.yaml"), "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil || !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "audit:\n  max_files: 7\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "audit.max_files")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 7 || src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("unexpected explain result %v %+v", val, src)
	}

	val, src, err = Explain(res, "theme")
	if err != nil || val != string(theme.Standard) || src.Kind != SourceDefault {
		t.Fatalf("expected default theme, got %v %+v %v", val, src, err)
	}

	if _, _, err := Explain(res, "layouts.grid"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Theme = string(theme.Reef)
	cfg.Apps = map[string][]string{"file-viewer": {"write_all_file_system"}}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Theme != string(theme.Reef) || len(res.Config.Apps["file-viewer"]) != 1 {
		t.Fatalf("unexpected reloaded config %+v", res.Config)
	}

	cfg.Scale = 0
	if err := cfg.SaveTo(path); err == nil {
		t.Fatalf("expected invalid config to be rejected")
	}
}

func TestSnapshotPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	cfg := DefaultConfig()
	if got, _ := cfg.SnapshotPath(); got != "/home/tester/.config/mingde/snapshot.json" {
		t.Fatalf("default snapshot path = %s", got)
	}
	cfg.Snapshot.Path = "~/state.json"
	if got, _ := cfg.SnapshotPath(); got != "/home/tester/state.json" {
		t.Fatalf("expanded snapshot path = %s", got)
	}
}
