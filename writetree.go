package tinygit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tinygit/tinygit/protocol/hash"
	"github.com/tinygit/tinygit/protocol/object"
)

// WriteTree recursively builds and stores a tree object for dir, skipping
// ".git", per spec.md §6's write-tree contract. It returns the root tree's id.
func WriteTree(store *Store, dir string) (hash.Hash, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var entries []TreeEntry
	for _, item := range items {
		if item.Name() == ".git" {
			continue
		}

		full := filepath.Join(dir, item.Name())
		info, err := os.Lstat(full)
		if err != nil {
			return nil, fmt.Errorf("statting %s: %w", full, err)
		}

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			target, err := os.Readlink(full)
			if err != nil {
				return nil, fmt.Errorf("reading symlink %s: %w", full, err)
			}
			id, err := store.Put(object.TypeBlob, []byte(target))
			if err != nil {
				return nil, fmt.Errorf("storing symlink blob %s: %w", full, err)
			}
			entries = append(entries, TreeEntry{Mode: ModeSymlink, Name: item.Name(), Hash: id})

		case info.IsDir():
			id, err := WriteTree(store, full)
			if err != nil {
				return nil, err
			}
			entries = append(entries, TreeEntry{Mode: ModeDirectory, Name: item.Name(), Hash: id})

		default:
			data, err := os.ReadFile(full)
			if err != nil {
				return nil, fmt.Errorf("reading file %s: %w", full, err)
			}
			id, err := store.Put(object.TypeBlob, data)
			if err != nil {
				return nil, fmt.Errorf("storing blob %s: %w", full, err)
			}

			mode := ModeFile
			if info.Mode()&0o100 != 0 {
				mode = ModeExecutable
			}
			entries = append(entries, TreeEntry{Mode: mode, Name: item.Name(), Hash: id})
		}
	}

	payload, err := EncodeTree(entries)
	if err != nil {
		return nil, fmt.Errorf("encoding tree %s: %w", dir, err)
	}

	return store.Put(object.TypeTree, payload)
}
