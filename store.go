package tinygit

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zlib"
	"github.com/tinygit/tinygit/protocol/hash"
	"github.com/tinygit/tinygit/protocol/object"
)

// Store is a content-addressed object database rooted at a ".git" directory,
// persisting each object as a zlib-compressed framed blob under
// objects/<id[0:2]>/<id[2:]>. Store is safe for sequential use only: concurrent
// ingests into the same store are not supported, matching spec.md §5.
type Store struct {
	gitDir string
}

// NewStore opens a Store rooted at gitDir (typically "<repo>/.git"). It does not
// require gitDir to exist yet; Put creates shard directories on demand.
func NewStore(gitDir string) *Store {
	return &Store{gitDir: gitDir}
}

// objectPath returns the sharded path an object with the given id is stored
// under, e.g. ".git/objects/ab/cdef...".
func (s *Store) objectPath(id hash.Hash) string {
	hex := id.String()
	return filepath.Join(s.gitDir, "objects", hex[:2], hex[2:])
}

// Put computes the id of (kind, payload), writes it to disk compressed, and
// returns the id. Put is idempotent: writing an id that already exists is a
// no-op and never fails on that account.
func (s *Store) Put(kind object.Type, payload []byte) (hash.Hash, error) {
	id, err := hashObject(kind, payload)
	if err != nil {
		return nil, fmt.Errorf("hashing object: %w", err)
	}

	path := s.objectPath(id)
	if _, err := os.Stat(path); err == nil {
		return id, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("statting object %s: %w", id, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating shard directory for %s: %w", id, err)
	}

	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(encodeObject(kind, payload)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("compressing object %s: %w", id, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing compressor for %s: %w", id, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp file for %s: %w", id, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("writing object %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing temp file for %s: %w", id, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("finalizing object %s: %w", id, err)
	}

	return id, nil
}

// PutRaw stores a payload already known to hash to id, skipping the hash
// recomputation. Used by the delta resolver (ingest.go), which computes ids as
// part of resolution and would otherwise hash every object twice.
func (s *Store) PutRaw(id hash.Hash, kind object.Type, payload []byte) error {
	path := s.objectPath(id)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("statting object %s: %w", id, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating shard directory for %s: %w", id, err)
	}

	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(encodeObject(kind, payload)); err != nil {
		_ = w.Close()
		return fmt.Errorf("compressing object %s: %w", id, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing compressor for %s: %w", id, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", id, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing object %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file for %s: %w", id, err)
	}

	return os.Rename(tmp.Name(), path)
}

// Get reads and decodes the object stored under id. It returns ErrObjectNotFound
// if no object with that id has been stored.
func (s *Store) Get(id hash.Hash) (object.Type, []byte, error) {
	path := s.objectPath(id)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return object.TypeInvalid, nil, fmt.Errorf("%s: %w", id, ErrObjectNotFound)
		}
		return object.TypeInvalid, nil, fmt.Errorf("opening object %s: %w", id, err)
	}
	defer f.Close()

	r, err := zlib.NewReader(f)
	if err != nil {
		return object.TypeInvalid, nil, fmt.Errorf("decompressing object %s: %w", id, err)
	}
	defer r.Close()

	framed, err := io.ReadAll(r)
	if err != nil {
		return object.TypeInvalid, nil, fmt.Errorf("reading object %s: %w", id, err)
	}

	return decodeObject(framed)
}

// Has reports whether an object with the given id is already stored.
func (s *Store) Has(id hash.Hash) bool {
	_, err := os.Stat(s.objectPath(id))
	return err == nil
}
