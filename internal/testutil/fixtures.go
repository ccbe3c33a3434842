package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// LogicLibraryJSON is a small valid library with two macros.
const LogicLibraryJSON = `{"macros": [
	{"name": "LUT1", "description": "1-input LUT", "ports": [
		{"name": "O", "direction": "output"},
		{"name": "I0", "direction": "input"}
	], "attributes": [{"name": "INIT", "default": "2'h0"}]},
	{"name": "FDCE", "description": "D flip-flop with clock enable and async clear", "ports": [
		{"name": "Q", "direction": "output"},
		{"name": "C", "direction": "input"},
		{"name": "CE", "direction": "input"},
		{"name": "CLR", "direction": "input"},
		{"name": "D", "direction": "input"}
	], "attributes": [
		{"name": "INIT", "default": "1'b0"},
		{"name": "IS_C_INVERTED"}
	]}
]}`

// WriteFile writes content to dir/name, creating parent directories, and
// returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// WriteFiles writes each name/content pair under dir.
func WriteFiles(t testing.TB, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		WriteFile(t, dir, name, content)
	}
}
