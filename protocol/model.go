package protocol

import (
	"errors"
	"io"
	"strconv"
)

// Acknowledgements contains whether a nack ("NAK") was received, or a list of ACKs, and for which objects those apply.
// If Nack is true, Acks is always empty. If Nack is false, Acks may be non-empty.
// The objects returned in Acks are always requested. Not all requested objects are necessarily listed.
// Not all sent objects are included in the list, and it may even be empty even if a cut point is found. This is an optimisation by the Git server.
//
// Git documentation defines the format as:
//
//	acknowledgments = PKT-LINE("acknowledgments" LF)
//	    (nak | *ack)
//	    (ready)
//	ready = PKT-LINE("ready" LF)
//	nak = PKT-LINE("NAK" LF)
//	ack = PKT-LINE("ACK" SP obj-id LF)
type Acknowledgements struct {
	// Invariant: Nack == true => Acks == nil
	//            Nack == false => len(Acks) >= 0

	Nack bool
	Acks []string
}

type Shallowness string

const (
	Shallow   = Shallowness("shallow")
	Unshallow = Shallowness("unshallow")
)

// ShallowInfo is sent when a shallow fetch or clone is requested.
//
//	shallow-info section
//	* If the client has requested a shallow fetch/clone, a shallow
//	  client requests a fetch or the server is shallow then the
//	  server's response may include a shallow-info section.  The
//	  shallow-info section will be included if (due to one of the
//	  above conditions) the server needs to inform the client of any
//	  shallow boundaries or adjustments to the clients already
//	  existing shallow boundaries.
type ShallowInfo struct {
	Shallowness Shallowness
	Object      string
}

type WantedRef struct {
	Object  string
	RefName RefName
}

// FetchResponse is the parsed result of a protocol-v2 "fetch" command. The
// acknowledgements/shallow-info/wanted-refs section headers are recognised and
// skipped, and the Acks, Shallow and WantedRefs fields are not filled in; the
// packfile section is what we actually consume.
type FetchResponse struct {
	Acks       Acknowledgements
	Shallow    []ShallowInfo
	WantedRefs []WantedRef

	// Packfile is always non-nil: even a response with no packfile section gives
	// back a Packfile whose first ReadObject call will surface whatever the
	// sideband stream actually contained (including a transport-level error).
	//
	//	packfile section
	//	* This section is only included if the client has sent 'want'
	//	  lines in its request and either requested that no more
	//	  negotiation be done by sending 'done' or if the server has
	//	  decided it has found a sufficient cut point to produce a
	//	  packfile.
	//
	//	Always begins with the section header "packfile".
	//
	//	The transmission of the packfile begins immediately after the section header.
	//
	//	The data transfer of the packfile is always multiplexed, using the same semantics of the side-band-64k capability from protocol version 1.
	//	This means that each packet, during the packfile data stream, is made up of a leading 4-byte pkt-line length (typical of the pkt-line format), followed by a 1-byte stream code, followed by the actual data.
	//
	//	The stream code can be one of:
	//	1 - pack data
	//	2 - progress messages
	//	3 - fatal error message just before stream aborts
	Packfile *Packfile
}

var (
	// ErrInvalidFetchStatus is returned when the sideband stream uses a channel
	// byte other than 1 (pack data), 2 (progress) or 3 (fatal error).
	ErrInvalidFetchStatus = errors.New("invalid fetch response status")
)

// FatalFetchError is a fatal error message sent by the server on sideband channel
// 3, just before it aborts the packfile stream.
type FatalFetchError string

func (e FatalFetchError) Error() string {
	return string(e)
}

// ParseFetchResponse reads a protocol-v2 fetch response section by section.
// It scans top-level pkt-lines until it sees the "packfile" section header (at
// which point the rest of reader is handed to the lazily-parsed Packfile) or a
// flush-pkt (at which point there was no packfile section at all). Other
// recognised section headers are skipped; unrecognised lines are ignored.
func ParseFetchResponse(reader io.ReadCloser) (*FetchResponse, error) {
	resp := &FetchResponse{
		Packfile: newStreamingPackfile(&sidebandReader{src: reader}),
	}

	for {
		line, flush, err := readFetchPktLine(reader)
		if err != nil {
			return nil, err
		}
		if flush {
			return resp, nil
		}

		if len(line) <= 30 {
			switch string(line) {
			case "packfile\n", "packfile":
				return resp, nil
			case "acknowledgments\n", "acknowledgments", "acknowledgements\n", "acknowledgements":
				continue
			case "shallow-info\n", "shallow-info":
				continue
			case "wanted-refs\n", "wanted-refs":
				continue
			}
		}
		// Unrecognised or long line: ignore and keep scanning.
	}
}

// readFetchPktLine reads one top-level pkt-line off reader, returning flush=true
// for a flush-pkt (or EOF) rather than an error.
func readFetchPktLine(reader io.Reader) (line []byte, flush bool, err error) {
	lengthBytes := make([]byte, 4)
	if _, err := io.ReadFull(reader, lengthBytes); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, true, nil
		}
		return nil, false, err
	}

	length, err := strconv.ParseUint(string(lengthBytes), 16, 16)
	if err != nil {
		return nil, false, err
	}
	if length < 4 {
		return nil, true, nil
	}

	data := make([]byte, length-4)
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, false, err
	}
	return data, false, nil
}

// sidebandReader demultiplexes the side-band-64k stream that carries the
// packfile section: each pkt-line is a 1-byte channel code followed by its
// payload. Channel 1 is pack data and is returned as-is; channel 2 is a
// progress message and is silently skipped; channel 3 is a fatal error that
// terminates the stream. Any other channel byte is treated as a protocol
// violation.
type sidebandReader struct {
	src io.Reader
	buf []byte
	err error
}

func (s *sidebandReader) Read(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}

	for len(s.buf) == 0 {
		line, flush, err := readFetchPktLine(s.src)
		if err != nil {
			s.err = err
			return 0, err
		}
		if flush {
			s.err = io.EOF
			return 0, io.EOF
		}
		if len(line) == 0 {
			continue
		}

		channel, payload := line[0], line[1:]
		switch channel {
		case 1:
			s.buf = payload
		case 2:
			continue
		case 3:
			s.err = FatalFetchError(string(payload))
			return 0, s.err
		default:
			s.err = ErrInvalidFetchStatus
			return 0, s.err
		}
	}

	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}
