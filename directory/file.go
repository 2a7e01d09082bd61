package directory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// File is a Directory backed by a JSON file of the form
//
//	{"clients": [{"name": "...", "attributes": {...}}, ...]}
//
// A missing file is treated as an empty directory and created on first Add.
type File struct {
	path string

	mu      sync.RWMutex
	clients map[string]Client // keyed by lowercase name
}

var _ Directory = (*File)(nil)

type fileDoc struct {
	Clients []Client `json:"clients"`
}

// NewFile opens (or bootstraps) a JSON-file directory at path.
func NewFile(path string) (*File, error) {
	f := &File{path: path}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Reload re-reads the backing file, replacing the in-memory snapshot.
func (f *File) Reload() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.mu.Lock()
			f.clients = make(map[string]Client)
			f.mu.Unlock()
			return nil
		}
		return fmt.Errorf("directory: read %s: %w", f.path, err)
	}

	var doc fileDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("directory: parse %s: %w", f.path, err)
	}

	clients := make(map[string]Client, len(doc.Clients))
	for _, c := range doc.Clients {
		clients[strings.ToLower(c.Name)] = c
	}

	f.mu.Lock()
	f.clients = clients
	f.mu.Unlock()
	return nil
}

// Exists implements Directory.
func (f *File) Exists(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.clients[strings.ToLower(name)]
	return ok
}

// Names implements Directory.
func (f *File) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.clients))
	for _, c := range f.clients {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// Add implements Directory. The new client is persisted immediately; the
// write replaces the whole file atomically (temp file + rename).
func (f *File) Add(c Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.ToLower(c.Name)
	if _, exists := f.clients[key]; exists {
		return fmt.Errorf("directory: client %q already exists", c.Name)
	}

	next := make(map[string]Client, len(f.clients)+1)
	for k, existing := range f.clients {
		next[k] = existing
	}
	next[key] = c

	if err := f.persist(next); err != nil {
		return err
	}
	f.clients = next
	return nil
}

// persist writes the directory snapshot back to disk. Caller holds f.mu.
func (f *File) persist(clients map[string]Client) error {
	doc := fileDoc{Clients: make([]Client, 0, len(clients))}

	keys := make([]string, 0, len(clients))
	for k := range clients {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		doc.Clients = append(doc.Clients, clients[k])
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("directory: encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("directory: create directory: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("directory: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("directory: replace %s: %w", f.path, err)
	}
	return nil
}
