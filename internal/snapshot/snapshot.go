// Package snapshot persists the shell's user state: theme, settings,
// desktop background and the virtual file system. Every save yields a
// SHA-256 hash the user can keep to detect later tampering with the file.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/1broseidon/mingde/internal/theme"
	"github.com/1broseidon/mingde/internal/vfs"
	"github.com/1broseidon/mingde/internal/wm"
)

// ErrHashMismatch is returned by Load when the file does not match the
// expected hash.
var ErrHashMismatch = errors.New("snapshot hash mismatch")

// Snapshot is the on-disk document.
type Snapshot struct {
	Theme      theme.Theme `json:"theme"`
	Settings   Settings    `json:"settings"`
	Background string      `json:"background"`
	Files      *vfs.Node   `json:"file_system"`
}

type Settings struct {
	Shortcuts bool `json:"shortcuts"`
}

// State returns the manager part of the snapshot.
func (s *Snapshot) State() wm.State {
	return wm.State{
		Theme:      s.Theme,
		Settings:   wm.Settings{Shortcuts: s.Settings.Shortcuts},
		Background: s.Background,
	}
}

// Hash returns the hex SHA-256 of the encoded snapshot.
func Hash(s *Snapshot) (string, error) {
	data, err := encode(s)
	if err != nil {
		return "", err
	}
	return hashBytes(data), nil
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func encode(s *Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// DefaultPath returns ~/.config/mingde/snapshot.json.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "mingde", "snapshot.json"), nil
}

// Store writes snapshots of the manager state and a file system to path.
// It is the manager's Persister.
type Store struct {
	mu       sync.Mutex
	path     string
	fs       *vfs.FS
	logger   *slog.Logger
	lastHash string
}

func NewStore(path string, fs *vfs.FS, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{path: path, fs: fs, logger: logger}
}

func (s *Store) Path() string { return s.path }

// LastHash returns the hash of the most recent save.
func (s *Store) LastHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastHash
}

// Persist saves st together with the current file system.
func (s *Store) Persist(st wm.State) error {
	snap := &Snapshot{
		Theme:      st.Theme,
		Settings:   Settings{Shortcuts: st.Settings.Shortcuts},
		Background: st.Background,
	}
	if s.fs != nil {
		snap.Files = s.fs.Tree()
	}
	data, err := encode(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	s.lastHash = hashBytes(data)
	s.logger.Info("snapshot saved", "path", s.path, "sha256", s.lastHash)
	return nil
}

// Load reads the snapshot at path. When expected is not empty the file's
// hash must match it.
func Load(path, expected string) (*Snapshot, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read snapshot: %w", err)
	}
	sum := hashBytes(data)
	if expected != "" && expected != sum {
		return nil, sum, fmt.Errorf("%w: file %s, expected %s", ErrHashMismatch, sum, expected)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, sum, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if !snap.Theme.Valid() {
		snap.Theme = theme.Standard
	}
	return &snap, sum, nil
}

// FileHash returns the hash of the snapshot file at path.
func FileHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read snapshot: %w", err)
	}
	return hashBytes(data), nil
}
