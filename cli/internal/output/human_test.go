package output

import (
	"testing"

	"github.com/tinygit/tinygit"
	"github.com/tinygit/tinygit/protocol/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanFormatter_FormatTreeEntries(t *testing.T) {
	formatter := NewHumanFormatter()

	entries := []tinygit.TreeEntry{
		{Mode: tinygit.ModeFile, Name: "README.md", Hash: hash.MustFromHex("0123456789abcdef0123456789abcdef01234567")},
		{Mode: tinygit.ModeDirectory, Name: "src", Hash: hash.MustFromHex("1111111111111111111111111111111111111111")},
	}

	// Should not error
	err := formatter.FormatTreeEntries(entries)
	assert.NoError(t, err)
}

func TestHumanFormatter_FormatBlobContent(t *testing.T) {
	formatter := NewHumanFormatter()

	content := []byte("Hello, World!")

	// Should not error
	err := formatter.FormatBlobContent("0123456789abcdef0123456789abcdef01234567", content)
	assert.NoError(t, err)
}

func TestHumanFormatter_FormatCloneResult(t *testing.T) {
	formatter := NewHumanFormatter()

	// Should not error
	err := formatter.FormatCloneResult("/tmp/repo", "0123456789abcdef0123456789abcdef01234567")
	require.NoError(t, err)
}

func TestHumanFormatter_EmptyTreeEntries(t *testing.T) {
	formatter := NewHumanFormatter()

	// Should handle empty slice without error
	err := formatter.FormatTreeEntries([]tinygit.TreeEntry{})
	assert.NoError(t, err)
}

func TestHumanFormatter_EmptyBlobContent(t *testing.T) {
	formatter := NewHumanFormatter()

	// Should handle empty content without error
	err := formatter.FormatBlobContent("empty", []byte{})
	assert.NoError(t, err)
}
