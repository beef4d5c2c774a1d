package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDelta is returned when a delta instruction stream is malformed.
	ErrInvalidDelta = errors.New("the payload given is not a valid delta")

	// ErrDeltaSourceMismatch is returned when a delta is applied against a base
	// whose length doesn't match the length recorded in the delta header.
	ErrDeltaSourceMismatch = errors.New("delta base size does not match expected source length")

	// ErrDeltaTargetSizeMismatch is returned when applying a delta's instructions
	// produces an object whose length doesn't match the target length recorded
	// in the delta header.
	ErrDeltaTargetSizeMismatch = errors.New("delta target size does not match reconstructed object")
)

// deltaOp is one instruction in a delta's instruction stream: either "copy size
// bytes from the base object starting at offset" or "insert these literal bytes".
type deltaOp struct {
	copy   bool
	offset int
	size   int
	data   []byte
}

// Delta is a parsed (but not yet applied) copy/insert instruction stream, as used by
// OBJ_REF_DELTA and OBJ_OFS_DELTA packfile entries.
//
// See https://git-scm.com/docs/pack-format#_deltified_representation
type Delta struct {
	Parent               string
	ExpectedSourceLength uint
	TargetLength         uint

	ops []deltaOp
}

// parseDelta parses a delta instruction stream: a source-length varint, a
// target-length varint, then a sequence of copy/insert commands.
//
// A command byte with its high bit set (0x80) is a copy: the low 7 bits say which
// of up to 4 offset bytes and 3 size bytes follow, least-significant byte first. A
// command byte with the high bit unset is an insert: the command byte itself is the
// number of literal bytes that follow (it must be non-zero; 0x00 is reserved).
// ParseDelta parses a ref-delta entry's instruction stream. parent identifies
// the base object (typically its hex id) and is carried on the result purely
// for diagnostics.
func ParseDelta(parent string, payload []byte) (*Delta, error) {
	return parseDelta(parent, payload)
}

func parseDelta(parent string, payload []byte) (*Delta, error) {
	delta := &Delta{Parent: parent}

	const minDeltaSize = 2
	if len(payload) < minDeltaSize {
		return nil, ErrInvalidDelta
	}

	delta.ExpectedSourceLength, payload = deltaHeaderSize(payload)
	delta.TargetLength, payload = deltaHeaderSize(payload)

	for len(payload) > 0 {
		cmd := payload[0]
		payload = payload[1:]

		if cmd == 0 {
			return nil, fmt.Errorf("%w: reserved command byte 0x00", ErrInvalidDelta)
		}

		if cmd&0x80 != 0 {
			op, rest, err := parseCopyOp(cmd, payload)
			if err != nil {
				return nil, err
			}
			delta.ops = append(delta.ops, op)
			payload = rest
			continue
		}

		size := int(cmd)
		if len(payload) < size {
			return nil, fmt.Errorf("%w: insert instruction truncated", ErrInvalidDelta)
		}
		delta.ops = append(delta.ops, deltaOp{data: payload[:size]})
		payload = payload[size:]
	}

	return delta, nil
}

func parseCopyOp(cmd byte, payload []byte) (deltaOp, []byte, error) {
	var offset, size uint32

	var err error
	offset, payload, err = readVariadicByte(cmd, payload, 0x01, 0)
	if err != nil {
		return deltaOp{}, nil, err
	}
	var partial uint32
	partial, payload, err = readVariadicByte(cmd, payload, 0x02, 8)
	if err != nil {
		return deltaOp{}, nil, err
	}
	offset |= partial
	partial, payload, err = readVariadicByte(cmd, payload, 0x04, 16)
	if err != nil {
		return deltaOp{}, nil, err
	}
	offset |= partial
	partial, payload, err = readVariadicByte(cmd, payload, 0x08, 24)
	if err != nil {
		return deltaOp{}, nil, err
	}
	offset |= partial

	partial, payload, err = readVariadicByte(cmd, payload, 0x10, 0)
	if err != nil {
		return deltaOp{}, nil, err
	}
	size = partial
	partial, payload, err = readVariadicByte(cmd, payload, 0x20, 8)
	if err != nil {
		return deltaOp{}, nil, err
	}
	size |= partial
	partial, payload, err = readVariadicByte(cmd, payload, 0x40, 16)
	if err != nil {
		return deltaOp{}, nil, err
	}
	size |= partial

	if size == 0 {
		size = 0x10000
	}

	return deltaOp{copy: true, offset: int(offset), size: int(size)}, payload, nil
}

// readVariadicByte consumes one byte of payload, shifted into position, if bit is
// set in cmd; otherwise it contributes 0.
func readVariadicByte(cmd byte, payload []byte, bit byte, shift uint) (uint32, []byte, error) {
	if cmd&bit == 0 {
		return 0, payload, nil
	}
	if len(payload) == 0 {
		return 0, nil, fmt.Errorf("%w: copy instruction truncated", ErrInvalidDelta)
	}
	return uint32(payload[0]) << shift, payload[1:], nil
}

// Apply reconstructs the target object by executing this delta's copy/insert
// instructions against base, which must be exactly ExpectedSourceLength bytes.
func (d *Delta) Apply(base []byte) ([]byte, error) {
	if uint(len(base)) != d.ExpectedSourceLength {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDeltaSourceMismatch, len(base), d.ExpectedSourceLength)
	}

	out := make([]byte, 0, d.TargetLength)
	for _, op := range d.ops {
		if op.copy {
			end := op.offset + op.size
			if op.offset < 0 || end > len(base) {
				return nil, fmt.Errorf("%w: copy [%d:%d] out of bounds of %d-byte base", ErrInvalidDelta, op.offset, end, len(base))
			}
			out = append(out, base[op.offset:end]...)
			continue
		}
		out = append(out, op.data...)
	}

	if uint(len(out)) != d.TargetLength {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDeltaTargetSizeMismatch, len(out), d.TargetLength)
	}

	return out, nil
}

// deltaHeaderSize reads one of the delta header's two leading varints (source
// length, then target length): 7 bits per byte, continuation in the high bit,
// least-significant group first.
func deltaHeaderSize(b []byte) (uint, []byte) {
	var size, shift uint
	var cmd byte
	var j int
	for {
		cmd = b[j]
		size |= (uint(cmd) & 0x7f) << shift
		j++
		shift += 7
		if cmd&0x80 == 0 || j == len(b) {
			break
		}
	}
	return size, b[j:]
}
