package tinygit

import (
	"bytes"
	"crypto"
	"fmt"
	"strconv"

	"github.com/tinygit/tinygit/protocol/hash"
	"github.com/tinygit/tinygit/protocol/object"
)

// ErrMalformedObject is returned by decodeObject when a framed object is missing
// its header separators or its declared length does not match its payload.
var ErrMalformedObject = fmt.Errorf("malformed git object")

// encodeObject frames an object payload the way Git hashes and stores it:
// "<kind> <len>\0<payload>". The length is never padded or quoted.
func encodeObject(kind object.Type, payload []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", kind.Bytes(), len(payload))
	framed := make([]byte, 0, len(header)+len(payload))
	framed = append(framed, header...)
	framed = append(framed, payload...)
	return framed
}

// decodeObject splits a framed object back into its kind and payload, verifying
// the declared length against the actual payload.
func decodeObject(framed []byte) (object.Type, []byte, error) {
	sp := bytes.IndexByte(framed, ' ')
	if sp < 0 {
		return object.TypeInvalid, nil, fmt.Errorf("%w: missing space separator", ErrMalformedObject)
	}
	nul := bytes.IndexByte(framed[sp+1:], 0)
	if nul < 0 {
		return object.TypeInvalid, nil, fmt.Errorf("%w: missing null separator", ErrMalformedObject)
	}
	nul += sp + 1

	kind := parseObjectKind(string(framed[:sp]))
	if kind == object.TypeInvalid {
		return object.TypeInvalid, nil, fmt.Errorf("%w: unknown object kind %q", ErrMalformedObject, framed[:sp])
	}

	declared, err := strconv.Atoi(string(framed[sp+1 : nul]))
	if err != nil {
		return object.TypeInvalid, nil, fmt.Errorf("%w: invalid length: %v", ErrMalformedObject, err)
	}

	payload := framed[nul+1:]
	if declared != len(payload) {
		return object.TypeInvalid, nil, fmt.Errorf("%w: declared length %d, got %d", ErrMalformedObject, declared, len(payload))
	}

	return kind, payload, nil
}

func parseObjectKind(s string) object.Type {
	switch s {
	case "commit":
		return object.TypeCommit
	case "tree":
		return object.TypeTree
	case "blob":
		return object.TypeBlob
	case "tag":
		return object.TypeTag
	default:
		return object.TypeInvalid
	}
}

// hashObject computes the id of an object without framing it explicitly; it is a
// thin wrapper around hash.Object fixed to SHA-1, the only algorithm this client
// writes (per spec.md §3, collision-resistance of SHA-1 is assumed).
func hashObject(kind object.Type, payload []byte) (hash.Hash, error) {
	return hash.Object(crypto.SHA1, kind, payload)
}

// HashObject computes the id a blob with the given payload would have without
// storing it, for hash-object's dry-run mode (spec.md §6: "hash-object" without
// "-w" prints the id but leaves the store untouched).
func HashObject(payload []byte) (hash.Hash, error) {
	return hashObject(object.TypeBlob, payload)
}
