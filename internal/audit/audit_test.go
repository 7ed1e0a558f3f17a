package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/mingde/internal/wm"
)

func newTestLogger(t *testing.T, cfg Config) *Logger {
	t.Helper()
	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { l.Close() })
	return l
}

func TestDecisionFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l := newTestLogger(t, Config{Enabled: true, Level: LevelDebug, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})

	env := wm.Envelope{Request: wm.ReadFileSystem{Permission: wm.PermissionReadAll, Path: "/etc"}, Issuer: "windows-1-file-viewer", Trusted: true}
	l.Decision(env, wm.Outcome{Status: wm.StatusPending, Approval: "abc"})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := `2024-03-01 09:30:00 [PENDING] kind=ReadFileSystem issuer=windows-1-file-viewer trusted=true request="read /etc" approval=abc` + "\n"
	if string(data) != want {
		t.Errorf("entry = %q\nwant    %q", data, want)
	}
}

func TestDecisionLevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l := newTestLogger(t, Config{Enabled: true, Level: LevelInfo, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})

	env := wm.Envelope{Request: wm.ChangeCursor{Cursor: wm.CursorMove}, Issuer: "x"}
	l.Decision(env, wm.Outcome{Status: wm.StatusApplied})
	l.Decision(env, wm.Outcome{Status: wm.StatusDropped, Reason: "untrusted cosmetic request"})

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], "[DROPPED]") {
		t.Fatalf("applied decisions should be filtered at info: %q", data)
	}
}

func TestRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l := newTestLogger(t, Config{Enabled: true, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	l.currentSize = 1024 * 1024

	l.Decision(wm.Envelope{Request: wm.CloseWindow{}, Issuer: "x"}, wm.Outcome{Status: wm.StatusInvalid})
	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("rotated file missing: %v", err)
	}
	if l.currentSize == 0 || l.currentSize >= 1024*1024 {
		t.Fatalf("size after rotation = %d", l.currentSize)
	}
}

func TestDisabledLogger(t *testing.T) {
	l, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Decision(wm.Envelope{Request: wm.CloseWindow{}}, wm.Outcome{})
	var nilLogger *Logger
	nilLogger.Decision(wm.Envelope{Request: wm.CloseWindow{}}, wm.Outcome{})
	if err := nilLogger.Close(); err != nil {
		t.Fatalf("Close on nil: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{"debug": LevelDebug, "WARN": LevelWarn, "warning": LevelWarn, "error": LevelError, "": LevelInfo}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %d, want %d", in, got, want)
		}
	}
}
