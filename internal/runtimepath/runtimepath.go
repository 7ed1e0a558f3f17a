// Package runtimepath locates per-user runtime files: the control socket and
// the headless frame dump.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// SocketEnv overrides the control socket path when set.
const SocketEnv = "MINGDE_SOCKET"

// Dir returns XDG_RUNTIME_DIR, then /run/user/<uid> if it exists, and
// otherwise creates /tmp/mingde-<uid>.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}
	uid := os.Getuid()
	if dir := fmt.Sprintf("/run/user/%d", uid); isDir(dir) {
		return dir, nil
	}
	dir := fmt.Sprintf("/tmp/mingde-%d", uid)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return dir, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SocketPath returns the path of the running shell's control socket.
func SocketPath() (string, error) {
	if p := os.Getenv(SocketEnv); p != "" {
		return p, nil
	}
	return inDir("mingde.sock")
}

// FramePath returns where the headless host writes its frames by default.
func FramePath() (string, error) {
	return inDir("mingde-frame.png")
}

func inDir(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
