package tinygit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tinygit/tinygit/internal/gitconfig"
)

// Init creates ".git/", ".git/objects/", ".git/refs/", ".git/HEAD", and
// ".git/config" for a fresh repository rooted at dir, per spec.md §4.J step 1
// and §6's on-disk layout.
func Init(dir string) error {
	gitDir := filepath.Join(dir, ".git")
	for _, sub := range []string{"objects", filepath.Join("refs", "heads")} {
		if err := os.MkdirAll(filepath.Join(gitDir, sub), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", sub, err)
		}
	}

	if err := os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		return fmt.Errorf("writing HEAD: %w", err)
	}

	if err := gitconfig.WriteDefault(filepath.Join(gitDir, "config")); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// FindGitDir walks up from dir looking for a ".git" directory, the way every
// command other than init and clone locates the repository it operates on.
func FindGitDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(abs, ".git")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNotARepository
		}
		abs = parent
	}
}
