// Package vault adapts a filesystem-backed markdown note vault as an
// MCP tool server.
package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Config holds the vault adapter configuration.
type Config struct {
	Root string `yaml:"root" env:"VAULT_ROOT"`
}

// Vault is a directory of markdown notes. All paths are resolved
// relative to the root; escapes via ".." or absolute paths are
// rejected at the boundary.
type Vault struct {
	root string
}

// New opens a vault. The root must exist: a missing vault is a
// startup failure, not a per-request one.
func New(cfg Config) (*Vault, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("vault root is required")
	}
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("open vault %s: %w", cfg.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault root %s is not a directory", cfg.Root)
	}
	abs, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve vault root: %w", err)
	}
	return &Vault{root: abs}, nil
}

// Root returns the absolute vault root.
func (v *Vault) Root() string { return v.root }

// resolve maps a note path inside the vault to an absolute path,
// rejecting traversal outside the root.
func (v *Vault) resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("note path is required")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("note path must be relative to the vault: %s", name)
	}
	cleaned := filepath.Clean(name)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("note path escapes the vault: %s", name)
	}
	return filepath.Join(v.root, cleaned), nil
}

// Read returns a note's content.
func (v *Vault) Read(name string) (string, error) {
	path, err := v.resolve(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read note %s: %w", name, err)
	}
	return string(data), nil
}

// Write creates or replaces a note, creating parent folders as needed.
func (v *Vault) Write(name, content string) error {
	path, err := v.resolve(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create note folder: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write note %s: %w", name, err)
	}
	return nil
}

// NoteInfo describes one note in a listing.
type NoteInfo struct {
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// List walks the vault and returns all markdown notes, sorted by path.
func (v *Vault) List() ([]NoteInfo, error) {
	var notes []NoteInfo
	err := filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Hidden folders (e.g. .obsidian) are not notes.
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") && path != v.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(v.root, path)
		if err != nil {
			return err
		}
		notes = append(notes, NoteInfo{Path: rel, Size: info.Size(), Modified: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].Path < notes[j].Path })
	return notes, nil
}

// Match is one search hit with the first matching line.
type Match struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// Search scans note contents for a case-insensitive substring.
func (v *Vault) Search(query string, limit int) ([]Match, error) {
	notes, err := v.List()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var matches []Match
	for _, note := range notes {
		if limit > 0 && len(matches) >= limit {
			break
		}
		content, err := v.Read(note.Path)
		if err != nil {
			continue
		}
		for i, line := range strings.Split(content, "\n") {
			if strings.Contains(strings.ToLower(line), needle) {
				matches = append(matches, Match{Path: note.Path, Line: i + 1, Text: strings.TrimSpace(line)})
				break
			}
		}
	}
	return matches, nil
}
