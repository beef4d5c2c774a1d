package tinygit

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinygit/tinygit/protocol/hash"
)

func TestBuildCommitParseRoundTrip(t *testing.T) {
	tree := hash.MustFromHex("0000000000000000000000000000000000000a")
	parent := hash.MustFromHex("0000000000000000000000000000000000000b")
	now := time.Unix(1700000000, 0).UTC()

	payload := BuildCommit(tree, parent, "a message\n", now)

	c, err := ParseCommit(payload)
	require.NoError(t, err)
	assert.Equal(t, tree, c.Tree)
	assert.Equal(t, parent, c.Parent)
	assert.Equal(t, "a message\n", c.Message)
}

func TestBuildCommitWithoutParent(t *testing.T) {
	tree := hash.MustFromHex("0000000000000000000000000000000000000a")
	payload := BuildCommit(tree, nil, "root commit\n", time.Unix(0, 0).UTC())

	assert.False(t, strings.Contains(string(payload), "\nparent "))

	c, err := ParseCommit(payload)
	require.NoError(t, err)
	assert.Equal(t, tree, c.Tree)
	assert.Empty(t, c.Parent)
}

func TestBuildCommitUsesResolvedIdentity(t *testing.T) {
	t.Setenv("TINYGIT_AUTHOR_NAME", "Ada Lovelace")
	t.Setenv("TINYGIT_AUTHOR_EMAIL", "ada@example.com")

	tree := hash.MustFromHex("0000000000000000000000000000000000000a")
	payload := BuildCommit(tree, nil, "msg\n", time.Unix(1700000000, 0).UTC())

	assert.Contains(t, string(payload), "author Ada Lovelace <ada@example.com> 1700000000")
	assert.Contains(t, string(payload), "committer Ada Lovelace <ada@example.com> 1700000000")

	c, err := ParseCommit(payload)
	require.NoError(t, err)
	require.NotNil(t, c.Author)
	require.NotNil(t, c.Committer)
	assert.Equal(t, "Ada Lovelace", c.Author.Name)
	assert.Equal(t, "ada@example.com", c.Author.Email)
}

func TestParseCommitMalformed(t *testing.T) {
	_, err := ParseCommit([]byte("tree deadbeef\nno blank line here"))
	require.ErrorIs(t, err, ErrMalformedObject)
}

func TestParseCommitMissingTree(t *testing.T) {
	_, err := ParseCommit([]byte("author a <a@b.c> 1 +0000\n\nmsg\n"))
	require.ErrorIs(t, err, ErrMalformedObject)
}
