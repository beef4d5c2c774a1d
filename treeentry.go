package tinygit

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/tinygit/tinygit/protocol/hash"
)

// Tree entry modes, per spec.md §3. These are Git's literal ASCII mode strings,
// not zero-padded, and are never reinterpreted as numbers by this codec.
const (
	ModeDirectory  = "40000"
	ModeFile       = "100644"
	ModeExecutable = "100755"
	ModeSymlink    = "120000"
)

// TreeEntry is one line of a tree object's payload: a mode, a name (no '/' or
// NUL), and the 20-byte id of the blob or tree it references.
type TreeEntry struct {
	Mode string
	Name string
	Hash hash.Hash
}

func isValidTreeMode(mode string) bool {
	switch mode {
	case ModeDirectory, ModeFile, ModeExecutable, ModeSymlink:
		return true
	default:
		return false
	}
}

// EncodeTree renders entries into a tree object's payload. Entries are sorted
// by name byte order (spec.md §9: plain byte-lexicographic, no trailing-slash
// convention for directories) before encoding; the input slice is not mutated.
func EncodeTree(entries []TreeEntry) ([]byte, error) {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var buf bytes.Buffer
	for _, e := range sorted {
		if e.Name == "" || strings.ContainsRune(e.Name, '/') || strings.ContainsRune(e.Name, 0) {
			return nil, fmt.Errorf("%w: invalid tree entry name %q", ErrMalformedObject, e.Name)
		}
		if !isValidTreeMode(e.Mode) {
			return nil, fmt.Errorf("%w: invalid tree entry mode %q", ErrMalformedObject, e.Mode)
		}
		if len(e.Hash) != 20 {
			return nil, fmt.Errorf("%w: tree entry %q has a %d-byte id, want 20", ErrMalformedObject, e.Name, len(e.Hash))
		}

		buf.WriteString(e.Mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(e.Hash)
	}

	return buf.Bytes(), nil
}

// DecodeTree parses a tree object's payload back into its entries, in the
// on-disk (sorted) order.
func DecodeTree(payload []byte) ([]TreeEntry, error) {
	var entries []TreeEntry

	for len(payload) > 0 {
		sp := bytes.IndexByte(payload, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("%w: tree entry missing mode separator", ErrMalformedObject)
		}
		mode := string(payload[:sp])
		if !isValidTreeMode(mode) {
			return nil, fmt.Errorf("%w: invalid tree entry mode %q", ErrMalformedObject, mode)
		}

		rest := payload[sp+1:]
		nul := bytes.IndexByte(rest, 0)
		if nul < 0 {
			return nil, fmt.Errorf("%w: tree entry missing name terminator", ErrMalformedObject)
		}
		name := string(rest[:nul])

		idStart := nul + 1
		if idStart+20 > len(rest) {
			return nil, fmt.Errorf("%w: tree entry %q truncated id", ErrMalformedObject, name)
		}
		id := hash.Hash(bytes.Clone(rest[idStart : idStart+20]))

		entries = append(entries, TreeEntry{Mode: mode, Name: name, Hash: id})
		payload = rest[idStart+20:]
	}

	return entries, nil
}
