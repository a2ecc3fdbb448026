package nmea

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func nmeaLine(payload string) string {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return fmt.Sprintf("$%s*%02X", payload, ck)
}

func TestParse_ChecksumOK(t *testing.T) {
	line := nmeaLine("GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W")
	s, err := Parse(line, false)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Talker() != "GP" {
		t.Fatalf("expected talker GP, got %q", s.Talker())
	}
	if s.Type() != "RMC" {
		t.Fatalf("expected type RMC, got %q", s.Type())
	}
}

func TestParse_LowercaseChecksumAccepted(t *testing.T) {
	payload := "GPVTG,054.7,T,034.4,M,005.5,N,010.2,K"
	line := fmt.Sprintf("$%s*%02x", payload, Checksum(payload))
	if _, err := Parse(line, false); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestParse_ChecksumMismatch(t *testing.T) {
	good := nmeaLine("GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W")
	bad := good[:len(good)-2] + "00"
	_, err := Parse(bad, false)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("expected checksum mismatch, got %v", err)
	}
}

func TestParse_SingleCharCorruptionFailsChecksum(t *testing.T) {
	good := nmeaLine("GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W")
	for i := 1; i < strings.IndexByte(good, '*'); i++ {
		if good[i] == ',' {
			continue
		}
		corrupt := good[:i] + "Z" + good[i+1:]
		if corrupt == good {
			continue
		}
		if _, err := Parse(corrupt, false); !errors.Is(err, ErrChecksumMismatch) {
			t.Fatalf("corruption at %d not caught: %v", i, err)
		}
	}
}

func TestParse_MissingStart(t *testing.T) {
	if _, err := Parse("GPRMC,123519,A*00", false); !errors.Is(err, ErrMissingStart) {
		t.Fatalf("expected missing start, got %v", err)
	}
}

func TestParse_MissingChecksumSeparator(t *testing.T) {
	if _, err := Parse("$GPRMC,123519,A", false); !errors.Is(err, ErrNoChecksum) {
		t.Fatalf("expected missing checksum, got %v", err)
	}
}

func TestParse_ShortSentenceID(t *testing.T) {
	line := nmeaLine("GPX,1,2")
	if _, err := Parse(line, false); !errors.Is(err, ErrShortSentenceID) {
		t.Fatalf("expected short id, got %v", err)
	}
}

func TestParse_UnknownTypeProducesGeneric(t *testing.T) {
	line := nmeaLine("GPZDA,201530.00,04,07,2002,00,00")
	s, err := Parse(line, false)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	g, ok := s.(*Generic)
	if !ok {
		t.Fatalf("expected *Generic, got %T", s)
	}
	if g.Type() != "ZDA" {
		t.Fatalf("expected type ZDA, got %q", g.Type())
	}
	if len(g.Fields) != 6 || g.Fields[0] != "201530.00" {
		t.Fatalf("unexpected fields: %v", g.Fields)
	}
}

func TestParse_NullBytesStripped(t *testing.T) {
	line := nmeaLine("GPVTG,054.7,T,034.4,M,005.5,N,010.2,K")
	padded := line[:10] + "\x00\x00" + line[10:] + "\x00"
	s, err := Parse(padded, false)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Type() != "VTG" {
		t.Fatalf("expected type VTG, got %q", s.Type())
	}
}
