// Package vfs is the in-memory file system windows reach through file
// system requests.
package vfs

import (
	"path"
	"sort"
	"strings"
	"sync"
)

// Node is a file or a directory. Directories have Dir set and may have
// children; files carry Content.
type Node struct {
	Dir      bool             `json:"dir,omitempty"`
	Content  string           `json:"content,omitempty"`
	Children map[string]*Node `json:"children,omitempty"`
}

// File returns a file node.
func File(content string) *Node { return &Node{Content: content} }

// Directory returns a directory node holding children.
func Directory(children map[string]*Node) *Node {
	if children == nil {
		children = map[string]*Node{}
	}
	return &Node{Dir: true, Children: children}
}

func (n *Node) clone() *Node {
	out := &Node{Dir: n.Dir, Content: n.Content}
	// Empty directories decode without a children map.
	if n.Dir || n.Children != nil {
		out.Children = make(map[string]*Node, len(n.Children))
		for name, c := range n.Children {
			out.Children[name] = c.clone()
		}
	}
	return out
}

// FS is safe for concurrent use.
type FS struct {
	mu   sync.RWMutex
	root *Node
}

// New returns a file system rooted at root, or an empty one when root is
// nil or not a directory.
func New(root *Node) *FS {
	if root == nil || !root.Dir {
		root = Directory(nil)
	}
	return &FS{root: root.clone()}
}

// Default returns the file system a fresh shell starts with.
func Default() *FS {
	return New(Directory(map[string]*Node{
		"home": Directory(map[string]*Node{
			"readme.txt": File("Welcome to mingde.\nOpen files with the File Viewer. Reading and writing ask for permission the first time."),
		}),
		"usr": Directory(map[string]*Node{
			"motd": File("Have a nice day."),
		}),
	}))
}

// Navigate resolves mod against current. A leading "/" makes mod absolute;
// "." and ".." are handled anywhere, and going above the root stays at the
// root. The result need not exist.
func Navigate(current, mod string) string {
	if current == "" {
		current = "/"
	}
	if strings.HasPrefix(mod, "/") {
		return path.Clean(mod)
	}
	return path.Join(path.Clean("/"+current), mod)
}

func split(p string) ([]string, bool) {
	if !strings.HasPrefix(p, "/") {
		return nil, false
	}
	p = path.Clean(p)
	if p == "/" {
		return nil, true
	}
	return strings.Split(p[1:], "/"), true
}

// lookup walks to p. It must be called with the lock held.
func (fs *FS) lookup(p string) (*Node, bool) {
	parts, ok := split(p)
	if !ok {
		return nil, false
	}
	n := fs.root
	for _, part := range parts {
		if !n.Dir {
			return nil, false
		}
		next, ok := n.Children[part]
		if !ok {
			return nil, false
		}
		n = next
	}
	return n, true
}

// parent returns the directory holding p and the final element.
func (fs *FS) parent(p string) (*Node, string, bool) {
	parts, ok := split(p)
	if !ok || len(parts) == 0 {
		return nil, "", false
	}
	dir, ok := fs.lookup("/" + strings.Join(parts[:len(parts)-1], "/"))
	if !ok || !dir.Dir {
		return nil, "", false
	}
	return dir, parts[len(parts)-1], true
}

// Read returns a file's content. For a directory it returns the sorted
// entry names, one per line, with directories suffixed by "/".
func (fs *FS) Read(p string) (string, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	n, ok := fs.lookup(p)
	if !ok {
		return "", false
	}
	if !n.Dir {
		return n.Content, true
	}
	return strings.Join(listing(n), "\n"), true
}

func listing(n *Node) []string {
	names := make([]string, 0, len(n.Children))
	for name, c := range n.Children {
		if c.Dir {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns the entries of the directory at p.
func (fs *FS) List(p string) ([]string, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	n, ok := fs.lookup(p)
	if !ok || !n.Dir {
		return nil, false
	}
	return listing(n), true
}

// Write creates or replaces the file at p. The parent directory must exist
// and p must not name a directory.
func (fs *FS) Write(p, content string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	dir, name, ok := fs.parent(p)
	if !ok {
		return false
	}
	if existing, ok := dir.Children[name]; ok && existing.Dir {
		return false
	}
	dir.Children[name] = File(content)
	return true
}

// Mkdir creates an empty directory at p unless something is already there.
func (fs *FS) Mkdir(p string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	dir, name, ok := fs.parent(p)
	if !ok {
		return false
	}
	if _, ok := dir.Children[name]; ok {
		return false
	}
	dir.Children[name] = Directory(nil)
	return true
}

// Remove deletes the file or directory at p. The root cannot be removed.
func (fs *FS) Remove(p string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	dir, name, ok := fs.parent(p)
	if !ok {
		return false
	}
	if _, ok := dir.Children[name]; !ok {
		return false
	}
	delete(dir.Children, name)
	return true
}

// Tree returns a deep copy of the whole file system.
func (fs *FS) Tree() *Node {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.root.clone()
}
