package tinygit

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/tinygit/tinygit/protocol/hash"
	"github.com/tinygit/tinygit/protocol/object"
)

// Commit is the parsed form of a commit object's payload. Only the tree and
// (optional, single) parent lines are consumed by this client, per spec.md §3;
// everything else is carried as opaque header/message text. Author/Committer
// are parsed for inspection commands but are not required to be present.
type Commit struct {
	Tree      hash.Hash
	Parent    hash.Hash // nil if the commit has no parent
	Author    *object.Identity
	Committer *object.Identity
	Message   string
}

// BuildCommit renders a commit object's payload: a "tree" line, an optional
// "parent" line, author/committer lines, a blank line, then the message.
func BuildCommit(tree hash.Hash, parent hash.Hash, message string, now time.Time) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", tree.String())
	if len(parent) > 0 {
		fmt.Fprintf(&buf, "parent %s\n", parent.String())
	}

	ident := resolveIdentity(now)
	fmt.Fprintf(&buf, "author %s\n", ident.String())
	fmt.Fprintf(&buf, "committer %s\n", ident.String())
	buf.WriteByte('\n')
	buf.WriteString(message)

	return buf.Bytes()
}

// ParseCommit extracts the tree id, optional parent id, and message from a
// commit object's payload.
func ParseCommit(payload []byte) (*Commit, error) {
	text := string(payload)
	headerEnd := strings.Index(text, "\n\n")
	if headerEnd < 0 {
		return nil, fmt.Errorf("%w: commit missing header/message separator", ErrMalformedObject)
	}

	header := text[:headerEnd]
	message := text[headerEnd+2:]

	c := &Commit{Message: message}
	for _, line := range strings.Split(header, "\n") {
		switch {
		case strings.HasPrefix(line, "tree "):
			id, err := hash.FromHex(strings.TrimPrefix(line, "tree "))
			if err != nil {
				return nil, fmt.Errorf("%w: invalid tree id: %v", ErrMalformedObject, err)
			}
			c.Tree = id
		case strings.HasPrefix(line, "parent "):
			id, err := hash.FromHex(strings.TrimPrefix(line, "parent "))
			if err != nil {
				return nil, fmt.Errorf("%w: invalid parent id: %v", ErrMalformedObject, err)
			}
			c.Parent = id
		case strings.HasPrefix(line, "author "):
			id, err := object.ParseIdentity(strings.TrimPrefix(line, "author "))
			if err == nil {
				c.Author = id
			}
		case strings.HasPrefix(line, "committer "):
			id, err := object.ParseIdentity(strings.TrimPrefix(line, "committer "))
			if err == nil {
				c.Committer = id
			}
		}
	}

	if len(c.Tree) == 0 {
		return nil, fmt.Errorf("%w: commit missing tree line", ErrMalformedObject)
	}

	return c, nil
}
