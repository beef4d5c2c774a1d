package tinygit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinygit/tinygit/protocol/object"
)

func TestWriteTreeSkipsGitDirAndRecurses(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "HEAD"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a.txt content"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("b content"), 0o644))

	store := NewStore(filepath.Join(root, ".git"))
	treeID, err := WriteTree(store, root)
	require.NoError(t, err)

	kind, payload, err := store.Get(treeID)
	require.NoError(t, err)
	assert.Equal(t, object.TypeTree, kind)

	entries, err := DecodeTree(payload)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.txt", entries[0].Name)
	assert.Equal(t, ModeFile, entries[0].Mode)
	assert.Equal(t, "sub", entries[1].Name)
	assert.Equal(t, ModeDirectory, entries[1].Mode)

	_, subPayload, err := store.Get(entries[1].Hash)
	require.NoError(t, err)
	subEntries, err := DecodeTree(subPayload)
	require.NoError(t, err)
	require.Len(t, subEntries, 1)
	assert.Equal(t, "b.txt", subEntries[0].Name)
}

func TestWriteTreeMarksExecutableFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "run.sh"), []byte("#!/bin/sh\n"), 0o755))

	store := NewStore(filepath.Join(root, ".git"))
	treeID, err := WriteTree(store, root)
	require.NoError(t, err)

	_, payload, err := store.Get(treeID)
	require.NoError(t, err)
	entries, err := DecodeTree(payload)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ModeExecutable, entries[0].Mode)
}
