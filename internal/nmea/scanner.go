package nmea

import (
	"bufio"
	"io"
	"log"
)

// Scanner is a pull-based cursor over an NMEA byte stream. Each call to
// Scan advances to the next line that decodes; lines that do not start
// with '$', fail checksum, or fail framing are skipped with a logged
// warning. The stream is single-pass and nothing beyond the current line
// is buffered.
type Scanner struct {
	sc      *bufio.Scanner
	strict  bool
	sent    Sentence
	err     error
	dropped int
}

// NewScanner reads newline-delimited sentences from r. strict enables
// strict coordinate validation in the position-bearing decoders.
func NewScanner(r io.Reader, strict bool) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 64*1024)
	return &Scanner{sc: sc, strict: strict}
}

// Scan advances to the next decodable sentence. It returns false at end of
// input or on a read error; Err distinguishes the two.
func (s *Scanner) Scan() bool {
	for s.sc.Scan() {
		raw := s.sc.Bytes()
		if len(raw) == 0 || raw[0] != '$' {
			continue
		}
		line := sanitize(raw)
		if line == "" {
			continue
		}
		sent, err := Parse(line, s.strict)
		if err != nil {
			s.dropped++
			log.Printf("nmea: skipping line: %v", err)
			continue
		}
		s.sent = sent
		return true
	}
	s.err = s.sc.Err()
	return false
}

// Sentence returns the sentence decoded by the last successful Scan.
func (s *Scanner) Sentence() Sentence { return s.sent }

// Err returns the first read error, if any. Decode errors are not read
// errors; they only increment Dropped.
func (s *Scanner) Err() error { return s.err }

// Dropped returns how many candidate lines were skipped for framing,
// checksum or id errors.
func (s *Scanner) Dropped() int { return s.dropped }

// sanitize strips NUL bytes (preallocated log files pad with them) and any
// non-ASCII noise from a raw line.
func sanitize(raw []byte) string {
	out := make([]byte, 0, len(raw))
	for _, b := range raw {
		if b == 0 || b > 0x7f {
			continue
		}
		out = append(out, b)
	}
	return string(out)
}
