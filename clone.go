package tinygit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/tinygit/tinygit/log"
	"github.com/tinygit/tinygit/protocol"
	"github.com/tinygit/tinygit/protocol/client"
	"github.com/tinygit/tinygit/protocol/hash"
)

// ErrHeadNotFound is returned by Clone when the remote's ls-refs response does
// not advertise a HEAD ref (spec.md §7's "HeadNotFound").
var ErrHeadNotFound = fmt.Errorf("remote HEAD not found")

// CloneOptions configures Clone beyond spec.md §4.J's bare (url, dir) contract:
// Logger lets a caller observe ingestion progress; Checkout filters the
// materialized working tree (§4.O); Transport configures authentication on
// the underlying transport (§4.N).
type CloneOptions struct {
	Logger    log.Logger
	Checkout  CheckoutOptions
	Transport []Option
}

// Clone implements spec.md §4.J: it creates dir, discovers the remote's HEAD,
// fetches and ingests the resulting packfile, writes refs/heads/main, and
// checks out the working tree — in that order, so a failure partway through
// ingest still leaves a content-addressed, resumable object store behind.
func Clone(ctx context.Context, url, dir string, opts CloneOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = &noopLogger{}
	}
	ctx = log.ToContext(ctx, logger)

	if err := Init(dir); err != nil {
		return fmt.Errorf("initializing %s: %w", dir, err)
	}
	gitDir := filepath.Join(dir, ".git")

	rc, err := client.NewRawClient(url, opts.Transport...)
	if err != nil {
		return fmt.Errorf("creating transport for %s: %w", url, err)
	}

	headID, err := discoverHead(ctx, rc)
	if err != nil {
		return fmt.Errorf("discovering HEAD of %s: %w", url, err)
	}
	logger.Debug("discovered HEAD", "id", headID.String())

	pf, body, err := fetchPackfile(ctx, rc, headID)
	if err != nil {
		return fmt.Errorf("fetching pack for %s: %w", headID, err)
	}
	defer body.Close()

	store := NewStore(gitDir)
	if err := Ingest(ctx, store, pf); err != nil {
		return fmt.Errorf("ingesting packfile: %w", err)
	}

	if err := WriteRef(gitDir, "heads/main", headID); err != nil {
		return fmt.Errorf("writing refs/heads/main: %w", err)
	}

	if err := Checkout(store, headID, dir, opts.Checkout); err != nil {
		return fmt.Errorf("checking out %s: %w", headID, err)
	}

	return nil
}

// discoverHead implements spec.md §4.E: probe the capability advertisement,
// then list refs over protocol v2 and return the id HEAD points to.
func discoverHead(ctx context.Context, rc client.RawClient) (hash.Hash, error) {
	info, err := rc.SmartInfo(ctx, "git-upload-pack")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", protocol.ErrProtocol, err)
	}
	_ = info.Close()

	refs, err := rc.LsRefs(ctx, client.LsRefsOptions{})
	if err != nil {
		return nil, err
	}

	for _, ref := range refs {
		if ref.RefName == "HEAD" {
			return ref.Hash, nil
		}
	}

	return nil, ErrHeadNotFound
}

// fetchPackfile sends the fetch command body described in spec.md §4.F
// ("command=fetch" 0001 "no-progress" "want <sha>" 0000) and returns a
// lazily-decoding Packfile over the response body. The caller must close the
// returned io.Closer once it has drained the Packfile.
func fetchPackfile(ctx context.Context, rc client.RawClient, want hash.Hash) (*protocol.Packfile, io.Closer, error) {
	pkt, err := protocol.FormatPacks(
		protocol.PackLine("command=fetch\n"),
		protocol.DelimeterPacket,
		protocol.PackLine("no-progress\n"),
		protocol.PackLine(fmt.Sprintf("want %s\n", want.String())),
		protocol.FlushPacket,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("building fetch request: %w", err)
	}

	body, err := rc.UploadPack(ctx, bytes.NewReader(pkt))
	if err != nil {
		return nil, nil, fmt.Errorf("sending fetch request: %w", err)
	}

	response, err := protocol.ParseFetchResponse(body)
	if err != nil {
		body.Close()
		return nil, nil, fmt.Errorf("parsing fetch response: %w", err)
	}

	return response.Packfile, body, nil
}
