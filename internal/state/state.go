// Package state remembers which notes a sync has converted and the org IDs
// it has seen, so later runs skip unchanged notes and keep links stable.
package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Entry records the last conversion of one source note
type Entry struct {
	MTime  int64  `json:"mtime"`
	Hash   string `json:"hash"`
	Output string `json:"output"`
}

// State is the persisted sync state. Files is keyed by source path.
type State struct {
	Files map[string]*Entry `json:"files"`
	IDMap map[string]string `json:"id_map"` // org ID -> note name
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Files: make(map[string]*Entry),
		IDMap: make(map[string]string),
	}
}

// Load reads state from path. A missing file gives an empty state.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	if st.Files == nil {
		st.Files = make(map[string]*Entry)
	}
	if st.IDMap == nil {
		st.IDMap = make(map[string]string)
	}

	return &st, nil
}

// Save writes state to path
func (s *State) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// ComputeHash computes the SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// HasChanged reports whether path needs converting into output: it is new,
// was last written elsewhere, its output is gone, or its content changed.
// Content is compared by mtime first and by hash when the mtime moved.
func (s *State) HasChanged(path, output string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	entry, exists := s.Files[path]
	if !exists || entry.Output != output {
		return true, nil
	}
	if _, err := os.Stat(output); err != nil {
		return true, nil
	}

	if info.ModTime().Unix() == entry.MTime {
		return false, nil
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}
	return hash != entry.Hash, nil
}

// Update records path as converted into output
func (s *State) Update(path, output string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return err
	}

	s.Files[path] = &Entry{
		MTime:  info.ModTime().Unix(),
		Hash:   hash,
		Output: output,
	}
	return nil
}

// Prune drops entries for sources under dir that are not in keep and
// returns the dropped paths
func (s *State) Prune(dir string, keep map[string]bool) []string {
	var dropped []string
	for path := range s.Files {
		rel, err := filepath.Rel(dir, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if !keep[path] {
			delete(s.Files, path)
			dropped = append(dropped, path)
		}
	}
	return dropped
}

// IDFor returns the org ID recorded for a note name
func (s *State) IDFor(name string) (string, bool) {
	for id, n := range s.IDMap {
		if n == name {
			return id, true
		}
	}
	return "", false
}
