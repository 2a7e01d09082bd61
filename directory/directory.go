// Package directory provides the client directory the ledger engine uses to
// validate customer names.
//
// Name matching is case-insensitive, matching how operators actually type
// customer names; stored spelling is preserved.
package directory

// Client is one directory entry. Anything beyond the name goes into
// Attributes — the ledger core carries no authentication data.
type Client struct {
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Directory is the client-existence collaborator.
type Directory interface {
	// Exists reports whether a client with the given name is registered.
	// Matching is case-insensitive.
	Exists(name string) bool

	// Names returns all registered client names in their stored spelling.
	Names() []string

	// Add registers a new client. Duplicate names (case-insensitive)
	// are rejected.
	Add(c Client) error

	// Reload re-reads the backing data. In-memory implementations no-op.
	Reload() error
}
