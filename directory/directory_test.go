package directory

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStaticExists(t *testing.T) {
	d := NewStatic(
		Client{Name: "Ana"},
		Client{Name: "Bruno Garcia"},
	)

	tests := []struct {
		name   string
		exists bool
	}{
		{"Ana", true},
		{"ana", true},
		{"ANA", true},
		{"Bruno Garcia", true},
		{"bruno garcia", true},
		{"Bruno", false},
		{"Nobody", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Exists(tt.name); got != tt.exists {
				t.Errorf("Exists(%q): got %v, want %v", tt.name, got, tt.exists)
			}
		})
	}
}

func TestStaticNames(t *testing.T) {
	d := NewStatic(Client{Name: "Carla"}, Client{Name: "Ana"})

	names := d.Names()
	if len(names) != 2 {
		t.Fatalf("names: got %d, want 2", len(names))
	}
	// Stored spelling is preserved even though matching is lowercased.
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	if !seen["Carla"] || !seen["Ana"] {
		t.Errorf("names: got %v", names)
	}
}

func TestStaticAdd(t *testing.T) {
	d := NewStatic(Client{Name: "Ana"})

	if err := d.Add(Client{Name: "Bruno"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !d.Exists("bruno") {
		t.Error("added client should exist")
	}
	if err := d.Add(Client{Name: "ANA"}); err == nil {
		t.Error("case-insensitive duplicate must be rejected")
	}
}

func TestFileDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.json")

	d, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if d.Exists("Ana") {
		t.Error("empty directory should have no clients")
	}

	if err := d.Add(Client{Name: "Ana", Attributes: map[string]string{"city": "Rosario"}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := d.Add(Client{Name: "ana"}); err == nil {
		t.Error("duplicate must be rejected")
	}

	// Persisted across reopen.
	d2, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile reopen: %v", err)
	}
	if !d2.Exists("ANA") {
		t.Error("reopened directory missing persisted client")
	}
}

func TestFileDirectoryReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.json")

	d, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	doc := `{"clients":[{"name":"External Client"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := d.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if !d.Exists("external client") {
		t.Error("external edit should be visible after Reload")
	}
}
