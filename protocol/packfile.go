package protocol

// A Packfile is a compressed, communicable file.
// Its wire-format is defined here: https://git-scm.com/docs/pack-format
// Its negotiation is defined here: https://git-scm.com/docs/pack-protocol#_packfile_negotiation
//
// The wire-format goes as such:
//   - 4-byte signature: `[]byte("PACK")`
//   - 4-byte version number (2 or 3; big-endian)
//   - 4-byte number of objects contained in the pack (big-endian)
//   - The pre-defined number of objects follow.
//   - A trailer of all packfile checksums.
//
// The object entries go as such:
//   - For an undeltified representation,
//     there is a n-byte type and length (3-bit type, (n-1)*7+4-bit length).
//     Finally, the compressed object data.
//   - For a deltified representation, the same byte and length is given.
//     Then, we have an object name if OBJ_REF_DELTA or a negative relative offset from the delta object's position in the pack if this is an OBJ_OFS_DELTA object.
//     Finally, the compressed delta data.
import (
	"bytes"
	"crypto"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/tinygit/tinygit/protocol/hash"
	"github.com/tinygit/tinygit/protocol/object"
)

var (
	// ErrNoPackfileSignature is returned when the payload does not start with the "PACK" signature.
	ErrNoPackfileSignature = errors.New("no packfile signature found")

	// ErrUnsupportedPackfileVersion is returned for any packfile version other than 2 or 3.
	ErrUnsupportedPackfileVersion = errors.New("unsupported packfile version")

	// ErrUnsupportedFeature names a packfile feature this client does not implement
	// (OFS_DELTA resolution). Nothing in this module returns it: ReadObject yields
	// OFS_DELTA entries with BaseOffset set, and Ingest drops them.
	ErrUnsupportedFeature = errors.New("unsupported packfile feature")

	// ErrTruncatedEntry is returned when an object entry's header or compressed data runs
	// past the end of the available input.
	ErrTruncatedEntry = errors.New("truncated packfile entry")
)

// PackfileObject is a single entry read out of a packfile, prior to delta resolution.
// For OBJ_REF_DELTA and OBJ_OFS_DELTA entries, Data holds the raw delta instruction
// stream rather than final object content, and Hash is left unset (Ingest computes
// the resolved object's id separately).
type PackfileObject struct {
	Type object.Type
	Hash hash.Hash
	Data []byte

	// BaseHash is set when Type == object.TypeRefDelta: the hash of the base object
	// this entry deltifies against.
	BaseHash hash.Hash

	// BaseOffset is set when Type == object.TypeOfsDelta: the negative offset (in
	// bytes, relative to this entry's own offset in the pack) of the base object.
	// We deliberately do not resolve OFS_DELTA objects; see ErrUnsupportedFeature.
	BaseOffset int64
}

// PackfileTrailer is the final record yielded by Packfile.ReadObject, once every
// object entry has been read.
type PackfileTrailer struct {
	// Checksum is the SHA-1 (or configured hash) of the entire packfile, as sent by
	// the server. It is the zero value if the source didn't provide one (e.g. in
	// tests, or packfiles assembled purely from side-band framing).
	Checksum hash.Hash
}

// PackfileEntry is returned by Packfile.ReadObject. Exactly one of Object or Trailer
// is set on any successful call; both are nil only together with a non-nil error.
type PackfileEntry struct {
	Object  *PackfileObject
	Trailer *PackfileTrailer
}

// Packfile incrementally decodes objects out of a packfile byte stream.
// It is not safe for concurrent use: ReadObject must be called from a single
// goroutine, in order, matching this client's single-threaded ingestion model.
type Packfile struct {
	src io.Reader

	headerParsed bool
	headerErr    error

	version uint32
	count   uint32

	read         uint32
	trailerSent  bool
	currentBytes int64 // bytes consumed so far, for OBJ_OFS_DELTA accounting
}

// ParsePackfile validates a packfile's 12-byte header (signature, version, object
// count) against an already fully-available byte slice and returns a Packfile ready
// to decode its entries via ReadObject.
func ParsePackfile(payload []byte) (*Packfile, error) {
	pf := &Packfile{src: bytes.NewReader(payload)}
	if err := pf.ensureHeader(); err != nil {
		return nil, err
	}
	return pf, nil
}

// newStreamingPackfile wraps a reader whose packfile header has not been read yet,
// deferring validation until the first ReadObject call. This is used when the
// packfile is only reachable after demultiplexing a side-band stream, so that a
// transport-level error (a fatal side-band packet) can be reported instead of being
// masked as "no packfile signature".
func newStreamingPackfile(src io.Reader) *Packfile {
	return &Packfile{src: src}
}

func (p *Packfile) ensureHeader() error {
	if p.headerParsed {
		return p.headerErr
	}
	p.headerParsed = true

	header := make([]byte, 12)
	n, err := io.ReadFull(p.src, header)
	p.currentBytes += int64(n)
	if err != nil {
		if n == 0 && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			// A structured transport error (e.g. a fatal side-band packet) takes
			// precedence over a generic "no signature" diagnosis.
			p.headerErr = err
			return err
		}
		p.headerErr = ErrNoPackfileSignature
		return p.headerErr
	}

	if !bytes.Equal(header[:4], []byte("PACK")) {
		p.headerErr = ErrNoPackfileSignature
		return p.headerErr
	}

	version := binary.BigEndian.Uint32(header[4:8])
	if version != 2 && version != 3 {
		p.headerErr = ErrUnsupportedPackfileVersion
		return p.headerErr
	}

	p.version = version
	p.count = binary.BigEndian.Uint32(header[8:12])
	return nil
}

// ReadObject returns the next object entry in the packfile. Once every object has
// been read, one further call returns a PackfileEntry with only Trailer set. Calls
// after that return io.EOF.
func (p *Packfile) ReadObject() (PackfileEntry, error) {
	if err := p.ensureHeader(); err != nil {
		return PackfileEntry{}, err
	}

	if p.trailerSent {
		return PackfileEntry{}, io.EOF
	}

	if p.read >= p.count {
		p.trailerSent = true
		sum := make([]byte, 20)
		if _, err := io.ReadFull(p.src, sum); err != nil {
			// No checksum available (streamed side-band sources, or test fixtures
			// that omit it). Each object was already content-addressed on read, so
			// a missing trailer isn't fatal to this client.
			return PackfileEntry{Trailer: &PackfileTrailer{}}, nil
		}
		return PackfileEntry{Trailer: &PackfileTrailer{Checksum: hash.Hash(sum)}}, nil
	}

	obj, err := p.readEntry()
	if err != nil {
		return PackfileEntry{}, err
	}
	p.read++
	return PackfileEntry{Object: obj}, nil
}

// readEntry decodes one object's type+size header, any delta-base reference, and its
// zlib-compressed payload.
func (p *Packfile) readEntry() (*PackfileObject, error) {
	startOffset := p.currentBytes

	b, err := p.readByte()
	if err != nil {
		return nil, fmt.Errorf("reading entry header: %w", ErrTruncatedEntry)
	}

	typ := object.Type((b >> 4) & 0x07)
	size := uint64(b & 0x0f)
	shift := uint(4)
	for b&0x80 != 0 {
		b, err = p.readByte()
		if err != nil {
			return nil, fmt.Errorf("reading entry header continuation: %w", ErrTruncatedEntry)
		}
		size |= uint64(b&0x7f) << shift
		shift += 7
	}

	obj := &PackfileObject{Type: typ}

	switch typ {
	case object.TypeRefDelta:
		base := make([]byte, 20)
		if _, err := io.ReadFull(p.src, base); err != nil {
			return nil, fmt.Errorf("reading ref-delta base: %w", ErrTruncatedEntry)
		}
		p.currentBytes += 20
		obj.BaseHash = hash.Hash(base)

	case object.TypeOfsDelta:
		offset, n, err := p.readOfsDeltaOffset()
		if err != nil {
			return nil, err
		}
		obj.BaseOffset = offset
		_ = n
		_ = startOffset
	}

	data, err := p.inflate(int(size))
	if err != nil {
		return nil, fmt.Errorf("inflating entry data: %w", err)
	}
	obj.Data = data

	// Delta entries don't have a stable git object hash until they are resolved
	// against their base; for those, Hash stays unset and the resolver in ingest.go
	// computes the resolved object's id itself.
	if typ != object.TypeRefDelta && typ != object.TypeOfsDelta {
		if h, err := hash.Object(crypto.SHA1, typ, data); err == nil {
			obj.Hash = h
		}
	}

	return obj, nil
}

// readOfsDeltaOffset reads the OBJ_OFS_DELTA varint-encoded negative offset, per
// pack-format's "offset encoding": 7 bits per byte, continuation in the high bit,
// with an accumulating +1 per continuation byte to avoid redundant encodings.
func (p *Packfile) readOfsDeltaOffset() (int64, int, error) {
	b, err := p.readByte()
	if err != nil {
		return 0, 0, fmt.Errorf("reading ofs-delta offset: %w", ErrTruncatedEntry)
	}
	n := 1
	offset := int64(b & 0x7f)
	for b&0x80 != 0 {
		b, err = p.readByte()
		if err != nil {
			return 0, 0, fmt.Errorf("reading ofs-delta offset continuation: %w", ErrTruncatedEntry)
		}
		n++
		offset++
		offset = (offset << 7) | int64(b&0x7f)
	}
	return offset, n, nil
}

func (p *Packfile) readByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(p.src, buf[:]); err != nil {
		return 0, err
	}
	p.currentBytes++
	return buf[0], nil
}

// singleByteReader forces its underlying reader to be consulted one byte at a time.
// compress/flate's bit reader otherwise buffers ahead past the end of a deflate
// stream, which would desynchronize our cursor into the surrounding packfile: the
// next object's header would start mid-way through bytes flate already consumed.
// Feeding it one byte per Read call means every byte flate asks for maps to exactly
// one byte actually needed, at the cost of throughput we don't need here.
type singleByteReader struct {
	r io.Reader
	n int64 // bytes read from r so far
}

func (s *singleByteReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := s.r.Read(p[:1])
	s.n += int64(n)
	return n, err
}

// inflate decompresses exactly size bytes of zlib-compressed data from p.src,
// advancing p.currentBytes by exactly the number of compressed bytes consumed.
func (p *Packfile) inflate(size int) ([]byte, error) {
	src := &singleByteReader{r: p.src}
	zr, err := zlib.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("zlib header: %w", err)
	}
	defer zr.Close()

	out := make([]byte, size)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, fmt.Errorf("inflating: %w", err)
	}

	// Drain to the end of the stream so the zlib trailer (Adler-32) is consumed and
	// our cursor lands exactly after this entry.
	var trash [1]byte
	for {
		if _, rerr := zr.Read(trash[:]); rerr != nil {
			break
		}
	}
	p.currentBytes += src.n

	return out, nil
}
