package tinygit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tinygit/tinygit/protocol/hash"
)

// WriteRef writes a 40-hex object id to refs/<name> (e.g. "heads/main"),
// creating parent directories as needed, per spec.md §4.J step 5.
func WriteRef(gitDir, name string, id hash.Hash) error {
	path := filepath.Join(gitDir, "refs", filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating ref directory for %s: %w", name, err)
	}
	return os.WriteFile(path, []byte(id.String()+"\n"), 0o644)
}

// ReadRef reads the 40-hex object id stored under refs/<name>.
func ReadRef(gitDir, name string) (hash.Hash, error) {
	path := filepath.Join(gitDir, "refs", filepath.FromSlash(name))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ref %s: %w", name, err)
	}
	return hash.FromHex(strings.TrimSpace(string(data)))
}

// ResolveHEAD follows ".git/HEAD" to the object id it ultimately points to,
// dereferencing one level of "ref: <refname>" indirection if present.
func ResolveHEAD(gitDir string) (hash.Hash, error) {
	data, err := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return nil, fmt.Errorf("reading HEAD: %w", err)
	}

	content := strings.TrimSpace(string(data))
	if ref, ok := strings.CutPrefix(content, "ref: "); ok {
		return ReadRef(gitDir, strings.TrimPrefix(ref, "refs/"))
	}

	return hash.FromHex(content)
}
