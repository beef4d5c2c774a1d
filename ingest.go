package tinygit

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tinygit/tinygit/log"
	"github.com/tinygit/tinygit/protocol"
	"github.com/tinygit/tinygit/protocol/object"
)

// Ingest drains every entry from pf, resolving ref-delta entries against their
// bases and materializing every object (delta-resolved or not) into store.
// This is spec.md §4.H's delta resolver: non-delta objects are written to the
// store before any delta is applied, and the fixpoint loop tolerates bases
// that arrive after the deltas that reference them.
//
// OBJ_OFS_DELTA entries are dropped silently (logged at Debug if ctx carries a
// logger) rather than resolved: spec.md §9's pragmatic default, since this
// client does not track each entry's offset within the pack.
func Ingest(ctx context.Context, store *Store, pf *protocol.Packfile) error {
	logger := log.FromContext(ctx)

	known := map[string][]byte{}
	kinds := map[string]object.Type{}
	var pending []*protocol.PackfileObject

	for {
		entry, err := pf.ReadObject()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("reading packfile entry: %w", err)
		}
		if entry.Trailer != nil {
			break
		}

		obj := entry.Object
		switch obj.Type {
		case object.TypeOfsDelta:
			if logger != nil {
				logger.Debug("dropping unsupported OBJ_OFS_DELTA entry")
			}
		case object.TypeRefDelta:
			pending = append(pending, obj)
		default:
			id := obj.Hash.String()
			known[id] = obj.Data
			kinds[id] = obj.Type
			if err := store.PutRaw(obj.Hash, obj.Type, obj.Data); err != nil {
				return fmt.Errorf("storing object %s: %w", id, err)
			}
		}
	}

	for len(pending) > 0 {
		var next []*protocol.PackfileObject
		progressed := false

		for _, delta := range pending {
			baseID := delta.BaseHash.String()
			base, ok := known[baseID]
			if !ok {
				next = append(next, delta)
				continue
			}

			parsed, err := protocol.ParseDelta(baseID, delta.Data)
			if err != nil {
				return fmt.Errorf("parsing delta against base %s: %w", baseID, err)
			}
			resolved, err := parsed.Apply(base)
			if err != nil {
				return fmt.Errorf("applying delta against base %s: %w", baseID, err)
			}

			kind := kinds[baseID]
			id, err := hashObject(kind, resolved)
			if err != nil {
				return fmt.Errorf("hashing resolved delta: %w", err)
			}

			known[id.String()] = resolved
			kinds[id.String()] = kind
			if err := store.PutRaw(id, kind, resolved); err != nil {
				return fmt.Errorf("storing resolved delta %s: %w", id, err)
			}
			progressed = true
		}

		if !progressed && len(next) > 0 {
			return fmt.Errorf("%w: %d delta(s) still pending", ErrUnresolvedDelta, len(next))
		}
		pending = next
	}

	return nil
}
