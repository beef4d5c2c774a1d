package protocol

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tinygit/tinygit/protocol/hash"
)

// ErrProtocol is returned for malformed smart-HTTP protocol data that isn't
// covered by a more specific sentinel (spec.md §7's "ProtocolError" kind).
var ErrProtocol = errors.New("git protocol error")

// RefLine is one parsed entry from an ls-refs response: the object id a ref
// points to and the ref's full name (e.g. "HEAD", "refs/heads/main").
type RefLine struct {
	Hash    hash.Hash
	RefName string
}

// ParseRefLine parses a single ls-refs packet payload of the form
// "<hex-id> <refname>[ <attribute>...]\n". Trailing attributes (such as
// HEAD's "symref-target:...") are accepted but ignored.
func ParseRefLine(data []byte) (RefLine, error) {
	line := strings.TrimRight(string(data), "\n")

	sp := strings.IndexByte(line, ' ')
	if sp < 0 {
		return RefLine{}, fmt.Errorf("%w: malformed ls-refs line %q", ErrProtocol, line)
	}

	id, err := hash.FromHex(line[:sp])
	if err != nil {
		return RefLine{}, fmt.Errorf("%w: invalid object id in ls-refs line %q: %v", ErrProtocol, line, err)
	}

	rest := line[sp+1:]
	if attr := strings.IndexByte(rest, ' '); attr >= 0 {
		rest = rest[:attr]
	}

	return RefLine{Hash: id, RefName: rest}, nil
}
