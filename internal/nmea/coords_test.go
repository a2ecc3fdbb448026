package nmea

import (
	"fmt"
	"math"
	"testing"
)

func TestDegrees_KnownFixture(t *testing.T) {
	lat, ok := Degrees("5222.81586", "N")
	if !ok {
		t.Fatalf("latitude did not parse")
	}
	if math.Abs(lat-52.38026433) > 1e-7 {
		t.Fatalf("latitude = %v, want 52.38026433", lat)
	}

	lon, ok := Degrees("00453.44075", "E")
	if !ok {
		t.Fatalf("longitude did not parse")
	}
	if math.Abs(lon-4.89067917) > 1e-7 {
		t.Fatalf("longitude = %v, want 4.89067917", lon)
	}
}

func TestDegrees_HemisphereNegation(t *testing.T) {
	lat, _ := Degrees("4807.038", "S")
	if lat >= 0 {
		t.Fatalf("expected negative latitude, got %v", lat)
	}
	lon, _ := Degrees("01131.000", "W")
	if lon >= 0 {
		t.Fatalf("expected negative longitude, got %v", lon)
	}
}

func TestDegrees_EmptyOrBadFields(t *testing.T) {
	if _, ok := Degrees("", "N"); ok {
		t.Fatalf("empty value parsed")
	}
	if _, ok := Degrees("4807.038", ""); ok {
		t.Fatalf("empty hemisphere parsed")
	}
	if _, ok := Degrees("not-a-number", "N"); ok {
		t.Fatalf("garbage parsed")
	}
}

// toDDMM renders decimal degrees back to the ddmm.mmmm wire format.
func toDDMM(dec float64, isLat bool) (string, string) {
	hemi := "N"
	if !isLat {
		hemi = "E"
	}
	if dec < 0 {
		dec = -dec
		if isLat {
			hemi = "S"
		} else {
			hemi = "W"
		}
	}
	deg := int(dec)
	min := (dec - float64(deg)) * 60
	if isLat {
		return fmt.Sprintf("%02d%09.6f", deg, min), hemi
	}
	return fmt.Sprintf("%03d%09.6f", deg, min), hemi
}

func TestDegrees_RoundTrip(t *testing.T) {
	for _, want := range []float64{52.38026433, -33.865143, 0.5, -0.25, 89.999, 4.89067917, -179.5} {
		isLat := want >= -90 && want <= 90
		raw, hemi := toDDMM(want, isLat)
		got, ok := Degrees(raw, hemi)
		if !ok {
			t.Fatalf("%v did not round-trip (raw=%q)", want, raw)
		}
		if math.Abs(got-want) > 1e-6 {
			t.Fatalf("round-trip %v -> %q -> %v", want, raw, got)
		}
	}
}

func TestCoordinateIssues_NullIsland(t *testing.T) {
	issues := CoordinateIssues(0, 0)
	if len(issues) != 1 || issues[0] != IssueNullIsland {
		t.Fatalf("unexpected issues: %v", issues)
	}
}

func TestCoordinateIssues_NearZero(t *testing.T) {
	issues := CoordinateIssues(0.00005, -0.00005)
	if len(issues) != 1 || issues[0] != IssueNearZero {
		t.Fatalf("unexpected issues: %v", issues)
	}
}

func TestCoordinateIssues_EquatorOnlyIsNormal(t *testing.T) {
	if issues := CoordinateIssues(0, 4.89); len(issues) != 0 {
		t.Fatalf("equator crossing flagged: %v", issues)
	}
	if issues := CoordinateIssues(52.38, 0); len(issues) != 0 {
		t.Fatalf("prime meridian crossing flagged: %v", issues)
	}
}

func TestCoordinateIssues_PoleAndMeridian(t *testing.T) {
	issues := CoordinateIssues(90, 180)
	if len(issues) != 2 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if issues[0] != IssuePole || issues[1] != IssueMeridian180 {
		t.Fatalf("unexpected issues: %v", issues)
	}
}

func TestRejectCoordinates(t *testing.T) {
	if RejectCoordinates(0, 0, false) {
		t.Fatalf("null island rejected outside strict mode")
	}
	if !RejectCoordinates(0, 0, true) {
		t.Fatalf("null island not rejected in strict mode")
	}
	if !RejectCoordinates(0.00005, 0.00005, true) {
		t.Fatalf("near-zero pair not rejected in strict mode")
	}
	// Pole and 180th meridian flags are advisory only.
	if RejectCoordinates(90, 0, true) {
		t.Fatalf("pole rejected")
	}
	if RejectCoordinates(0, 180, true) {
		t.Fatalf("180th meridian rejected")
	}
}
