// Package nmea decodes NMEA 0183 sentences from positioning receivers.
//
// A Sentence is only ever constructed from a line whose checksum verified;
// lines that fail framing or checksum are reported as errors and dropped by
// the caller. Decoding is tolerant: a field that fails to parse is left
// absent rather than failing the whole sentence.
package nmea

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

// Debug enables low-priority diagnostics for dropped lines (raw payload and
// checksum values). It is normally wired to the CLI -v flag.
var Debug bool

var (
	ErrMissingStart     = errors.New("nmea: missing '$'")
	ErrNoChecksum       = errors.New("nmea: missing checksum separator")
	ErrChecksumMismatch = errors.New("nmea: checksum mismatch")
	ErrShortSentenceID  = errors.New("nmea: short sentence id")
)

// Sentence is implemented by every decoded record.
type Sentence interface {
	Talker() string
	Type() string
}

// Header carries the sentence identity common to all types.
type Header struct {
	TalkerID string // 2-char talker, e.g. GP, GN
	TypeID   string // type code, e.g. RMC
}

func (h Header) Talker() string { return h.TalkerID }
func (h Header) Type() string   { return h.TypeID }

// Generic holds an unrecognized sentence type with its raw fields.
type Generic struct {
	Header
	Fields []string
}

type decodeFunc func(hdr Header, fields []string, strict bool) Sentence

// decoders maps the 3-char type code to its decoder. Unknown types fall
// through to Generic; they must not abort the stream.
var decoders = map[string]decodeFunc{
	"RMC": decodeRMC,
	"GGA": decodeGGA,
	"GSA": decodeGSA,
	"VTG": decodeVTG,
	"GSV": decodeGSV,
}

// Checksum returns the XOR fold of all payload bytes.
func Checksum(payload string) byte {
	var ck byte
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return ck
}

// Parse decodes one line. The line must start with '$' and carry a
// '*'-separated two-hex-digit checksum over the payload between them.
// Embedded NUL bytes (from preallocated log files) are stripped first.
// strict is forwarded to the position-bearing decoders (RMC, GGA) only.
func Parse(line string, strict bool) (Sentence, error) {
	line = strings.ReplaceAll(strings.TrimSpace(line), "\x00", "")
	if !strings.HasPrefix(line, "$") {
		return nil, ErrMissingStart
	}

	parts := strings.Split(line[1:], "*")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w in %q", ErrNoChecksum, line)
	}
	payload := parts[0]
	want := strings.ToUpper(strings.TrimSpace(parts[1]))
	got := fmt.Sprintf("%02X", Checksum(payload))
	if got != want {
		if Debug {
			log.Printf("nmea: raw line with failed checksum: %q", line)
			log.Printf("nmea: payload=%q expected=%s computed=%s", payload, want, got)
		}
		return nil, fmt.Errorf("%w: expected %s, computed %s", ErrChecksumMismatch, want, got)
	}

	fields := strings.Split(payload, ",")
	id := fields[0]
	if len(id) < 5 {
		return nil, fmt.Errorf("%w: %q", ErrShortSentenceID, id)
	}
	hdr := Header{TalkerID: id[:2], TypeID: id[2:]}
	data := fields[1:]

	if dec, ok := decoders[hdr.TypeID]; ok {
		return dec(hdr, data, strict), nil
	}
	return &Generic{Header: hdr, Fields: data}, nil
}
