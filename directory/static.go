package directory

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Static is an in-memory Directory, used in tests and by callers that embed
// their client list.
type Static struct {
	mu      sync.RWMutex
	clients map[string]Client // keyed by lowercase name
}

var _ Directory = (*Static)(nil)

// NewStatic creates a Static directory seeded with the given clients.
func NewStatic(clients ...Client) *Static {
	s := &Static{clients: make(map[string]Client, len(clients))}
	for _, c := range clients {
		s.clients[strings.ToLower(c.Name)] = c
	}
	return s
}

// Exists implements Directory.
func (s *Static) Exists(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.clients[strings.ToLower(name)]
	return ok
}

// Names implements Directory.
func (s *Static) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.clients))
	for _, c := range s.clients {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// Add implements Directory.
func (s *Static) Add(c Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(c.Name)
	if _, exists := s.clients[key]; exists {
		return fmt.Errorf("directory: client %q already exists", c.Name)
	}
	s.clients[key] = c
	return nil
}

// Reload implements Directory. In-memory data has nothing to reload.
func (s *Static) Reload() error { return nil }
