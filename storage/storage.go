// Package storage provides an object cache used to avoid re-fetching packfile
// objects that a previous Fetch call already retrieved.
package storage

import (
	"github.com/tinygit/tinygit/protocol"
	"github.com/tinygit/tinygit/protocol/hash"
)

// PackfileStorage caches packfile objects by hash. Implementations must be safe
// for concurrent use.
type PackfileStorage interface {
	// Get returns the object stored under key, if any.
	Get(key hash.Hash) (*protocol.PackfileObject, bool)

	// GetAllKeys returns every hash currently cached.
	GetAllKeys() []hash.Hash

	// Add stores one or more objects, keyed by their own hash.
	Add(objs ...*protocol.PackfileObject)

	// Delete removes the object stored under key, if any.
	Delete(key hash.Hash)

	// Len reports the number of objects currently cached.
	Len() int
}
