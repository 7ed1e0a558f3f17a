// Package audit writes every capability decision to a rotating log file.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/mingde/internal/wm"
)

// Level defines the logging verbosity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// decisionLevel returns the level a decision is logged at.
func decisionLevel(out wm.Outcome) Level {
	switch out.Status {
	case wm.StatusApplied:
		return LevelDebug
	case wm.StatusPending:
		return LevelInfo
	default:
		return LevelWarn
	}
}

// Config holds configuration for the audit log.
type Config struct {
	Enabled   bool
	Level     Level
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
}

// DefaultPath returns ~/.local/share/mingde/audit.log.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "mingde-audit.log")
	}
	return filepath.Join(home, ".local", "share", "mingde", "audit.log")
}

// Logger is the manager's Auditor.
type Logger struct {
	mu          sync.Mutex
	file        *os.File
	config      Config
	currentSize int64
	now         func() time.Time
}

// New opens the audit log. A disabled config yields a logger that writes
// nothing.
func New(cfg Config) (*Logger, error) {
	if !cfg.Enabled {
		return &Logger{config: cfg}, nil
	}

	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory %s: %w", dir, err)
	}
	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log %s: %w", cfg.FilePath, err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat audit log: %w", err)
	}
	return &Logger{file: f, config: cfg, currentSize: stat.Size(), now: time.Now}, nil
}

// Decision records one gate decision.
func (l *Logger) Decision(env wm.Envelope, out wm.Outcome) {
	if l == nil || !l.config.Enabled {
		return
	}
	if decisionLevel(out) < l.config.Level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}

	maxBytes := int64(l.config.MaxSizeMB) * 1024 * 1024
	if maxBytes > 0 && l.currentSize >= maxBytes {
		if err := l.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "audit log rotation failed: %v\n", err)
		}
		if l.file == nil {
			return
		}
	}

	n, err := l.file.WriteString(format(l.now(), env, out))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write audit entry: %v\n", err)
		return
	}
	l.currentSize += int64(n)
}

func format(at time.Time, env wm.Envelope, out wm.Outcome) string {
	var sb strings.Builder
	sb.WriteString(at.Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(strings.ToUpper(out.Status.String()))
	sb.WriteString("]")
	fmt.Fprintf(&sb, " kind=%s issuer=%s trusted=%t", env.Request.Kind(), env.Issuer, env.Trusted)
	fmt.Fprintf(&sb, " request=%q", wm.Describe(env.Request))
	if out.Reason != "" {
		fmt.Fprintf(&sb, " reason=%q", out.Reason)
	}
	if out.Approval != "" {
		fmt.Fprintf(&sb, " approval=%s", out.Approval)
	}
	sb.WriteString("\n")
	return sb.String()
}

// Close closes the logger and releases resources.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// rotate shifts audit.log to audit.log.1, .1 to .2 and so on, keeping
// MaxFiles rotated files.
func (l *Logger) rotate() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	base := l.config.FilePath
	for i := l.config.MaxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", base, i)
		if i == l.config.MaxFiles {
			os.Remove(oldPath)
			continue
		}
		os.Rename(oldPath, fmt.Sprintf("%s.%d", base, i+1))
	}
	if err := os.Rename(base, base+".1"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to rotate audit log: %w", err)
	}

	f, err := os.OpenFile(base, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open new audit log: %w", err)
	}
	l.file = f
	l.currentSize = 0
	return nil
}

// ParseLevel converts a string to Level.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
