package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRefLine(t *testing.T) {
	line := []byte("0000000000000000000000000000000000000a HEAD\n")
	ref, err := ParseRefLine(line)
	require.NoError(t, err)
	assert.Equal(t, "0000000000000000000000000000000000000a", ref.Hash.String())
	assert.Equal(t, "HEAD", ref.RefName)
}

func TestParseRefLineWithAttributes(t *testing.T) {
	line := []byte("0000000000000000000000000000000000000a HEAD symref-target:refs/heads/main\n")
	ref, err := ParseRefLine(line)
	require.NoError(t, err)
	assert.Equal(t, "HEAD", ref.RefName)
}

func TestParseRefLineMalformed(t *testing.T) {
	_, err := ParseRefLine([]byte("not-a-valid-line"))
	require.ErrorIs(t, err, ErrProtocol)
}

func TestParseRefLineBadHash(t *testing.T) {
	_, err := ParseRefLine([]byte("not-hex HEAD\n"))
	require.ErrorIs(t, err, ErrProtocol)
}
