package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// Package protocol implements Git's packet format used in various Git protocols.
// Git uses a packet-based protocol for communication between clients and servers.
// This package provides types and functions for working with Git's packet format.
//
// The packet format is used in several Git protocols:
//   - Git Protocol v1 (pack protocol)
//   - Git Protocol v2
//   - Smart HTTP protocol
//
// For more details about Git's packet format, see:
//   - https://git-scm.com/docs/gitprotocol-common
//   - https://git-scm.com/docs/gitprotocol-pack
//   - https://git-scm.com/docs/protocol-v2

// A non-binary line SHOULD BE terminated by an LF, which if present MUST be included in the total length.
// Receivers MUST treat pkt-lines with non-binary data the same whether or not they contain the trailing LF (stripping the LF if present, and not complaining when it is missing).
//
// The maximum length of a pkt-line's data component is 65516 bytes.
// Implementations MUST NOT send pkt-line whose length exceeds 65520 (65516 bytes of payload + 4 bytes of length data).
//
// A pkt-line with a length field of 0 ("0000"), called a flush-pkt, is a special case and MUST be handled differently than an empty pkt-line ("0004").
const (
	// PktLineLengthSize is the size of the length field in a packet (4 ASCII hex digits).
	// The length field is part of the value, i.e. the data is the value - 4.
	PktLineLengthSize = 4

	// MaxPktLineDataSize is the maximum size of the data field in a packet (65516 bytes).
	// This is the maximum payload size that can be sent in a single packet.
	MaxPktLineDataSize = 65516

	// MaxPktLineSize is the maximum total size of a packet (65520 bytes).
	// This includes both the length field (4 bytes) and the data field (65516 bytes).
	MaxPktLineSize = MaxPktLineDataSize + PktLineLengthSize
)

// ErrDataTooLarge is returned when attempting to create a packet with data larger than MaxPktLineDataSize.
var ErrDataTooLarge = errors.New("the data field is too large")

// Pack is the interface that wraps the Marshal method.
// All packet types must implement this interface to be used with FormatPacks.
type Pack interface {
	// Marshal converts the packet into its wire format.
	// The returned byte slice should be ready to be sent over the wire.
	Marshal() ([]byte, error)
}

// PackLine represents a regular packet line in Git's protocol.
// It contains arbitrary data that will be prefixed with a length field.
type PackLine []byte

var _ Pack = PackLine{}

// Marshal implements the Pack interface for PackLine.
// It prepends a 4-byte hex length field to the data.
// Returns ErrDataTooLarge if the data exceeds MaxPktLineDataSize.
func (p PackLine) Marshal() ([]byte, error) {
	if len(p) > MaxPktLineDataSize {
		return nil, ErrDataTooLarge
	}
	out := make([]byte, len(p)+4)
	copy(out, []byte(fmt.Sprintf("%04x", len(p)+4)))
	copy(out[4:], p)
	return out, nil
}

// SpecialPack represents a special packet type in Git's protocol.
// These packets have predefined formats and don't need length calculation.
type SpecialPack string

var _ Pack = SpecialPack("")

// Marshal implements the Pack interface for SpecialPack.
// Special packets are pre-defined and known to be valid, so no validation is needed.
func (p SpecialPack) Marshal() ([]byte, error) {
	// We don't need to do anything special here. The special packets are pre-defined, and known to be valid.
	return []byte(p), nil
}

const (
	// FlushPacket is a packet of length '0000'. It is a special-case packet that indicates
	// the end of a message or the need to flush the output buffer.
	// Defined in:
	//   - https://git-scm.com/docs/gitprotocol-common
	//   - https://git-scm.com/docs/protocol-v2
	FlushPacket = SpecialPack("0000")

	// DelimeterPacket is a packet of length '0001'. It is a special-case packet used in
	// protocol v2 to separate sections of a message.
	// Defined in:
	//   - https://git-scm.com/docs/protocol-v2
	DelimeterPacket = SpecialPack("0001")

	// ResponseEndPacket is a packet of length '0002'. It is a special-case packet used in
	// protocol v2 to indicate the end of a response.
	// Defined in:
	//   - https://git-scm.com/docs/protocol-v2
	ResponseEndPacket = SpecialPack("0002")
)

// PackParseError provides structured information about a Git packet parsing error.
type PackParseError struct {
	Line []byte
	Err  error
}

func (e *PackParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("error parsing line %q", e.Line)
	}
	return fmt.Sprintf("error parsing line %q: %s", e.Line, e.Err.Error())
}

// Unwrap enables errors.Is()/errors.As() compatibility.
func (e *PackParseError) Unwrap() error {
	return e.Err
}

// FormatPacks converts a sequence of packets into their wire format.
// It automatically appends a FlushPacket if none is present in the sequence.
// Returns an error if any packet fails to marshal.
func FormatPacks(packs ...Pack) ([]byte, error) {
	var out bytes.Buffer
	flushed := false
	for _, pl := range packs {
		marshalled, err := pl.Marshal()
		if err != nil {
			return nil, err
		}
		out.Write(marshalled)

		if sp, ok := pl.(SpecialPack); ok && sp == FlushPacket {
			flushed = true
		}
	}
	if !flushed {
		out.Write([]byte(FlushPacket))
	}
	return out.Bytes(), nil
}

// ParsePack parses pkt-line-framed packets out of data, stopping at the first
// flush/delimiter/response-end packet or the first packet that reports a
// server-side error (an "ERR "/"error:"/"fatal:" message, or a report-status
// "ng " line). It returns the regular data lines seen before stopping and
// whatever of data was not consumed.
//
// For more details about Git's packet-line format, see:
// https://git-scm.com/docs/gitprotocol-pack
func ParsePack(data []byte) (lines [][]byte, remainder []byte, err error) {
	for {
		if len(data) < PktLineLengthSize {
			return lines, data, nil
		}

		lengthBytes := data[:PktLineLengthSize]
		length, perr := strconv.ParseUint(string(lengthBytes), 16, 16)
		if perr != nil {
			return lines, data, &PackParseError{Line: lengthBytes, Err: fmt.Errorf("parsing line length: %w", perr)}
		}

		switch length {
		case 0, 1, 2: // flush, delimiter, response-end: stop parsing
			return lines, data[PktLineLengthSize:], nil
		case PktLineLengthSize: // empty packet, nothing to read
			data = data[PktLineLengthSize:]
			continue
		}

		if length < PktLineLengthSize {
			return lines, data, &PackParseError{Line: lengthBytes, Err: errors.New("reserved special packet length")}
		}

		total := int(length)
		if len(data) < total {
			return lines, data, &PackParseError{Line: lengthBytes, Err: errors.New("truncated packet data")}
		}

		payload := data[PktLineLengthSize:total]
		rest := data[total:]

		switch {
		case bytes.HasPrefix(payload, []byte("ERR ")):
			return lines, rest, fmt.Errorf("error packet: %s", payload[4:])

		case bytes.HasPrefix(payload, []byte("error:")), bytes.HasPrefix(payload, []byte("fatal:")):
			return lines, rest, fmt.Errorf("git error: %s", payload)

		case bytes.HasPrefix(payload, []byte("ng ")):
			return lines, rest, fmt.Errorf("reference update failed: %s", payload[3:])

		default:
			lines = append(lines, payload)
			data = rest
		}
	}
}
