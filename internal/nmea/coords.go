package nmea

import (
	"log"
	"math"
	"strconv"
)

// Coordinate anomaly flags. NullIsland and NearZero are rejectable under
// strict validation; Pole and Meridian180 are advisory only.
const (
	IssueNullIsland  = "zero coordinates (null island)"
	IssueNearZero    = "coordinates very close to zero"
	IssuePole        = "latitude exactly at pole"
	IssueMeridian180 = "longitude exactly at 180th meridian"
)

// Degrees converts a ddmm.mmmm (or dddmm.mmmm) field plus hemisphere letter
// to signed decimal degrees. Returns false when either field is empty or
// the value does not parse.
func Degrees(raw, hemi string) (float64, bool) {
	if raw == "" || hemi == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	deg := math.Trunc(v / 100)
	min := v - deg*100
	dec := deg + min/60
	if hemi == "S" || hemi == "W" {
		dec = -dec
	}
	return dec, true
}

// ValidLatitude reports whether lat is within [-90, 90].
func ValidLatitude(lat float64) bool { return lat >= -90 && lat <= 90 }

// ValidLongitude reports whether lon is within [-180, 180].
func ValidLongitude(lon float64) bool { return lon >= -180 && lon <= 180 }

// CoordinateIssues flags suspicious but in-range coordinate pairs.
// Equator-only or prime-meridian-only positions are normal and not flagged.
func CoordinateIssues(lat, lon float64) []string {
	var issues []string
	if lat == 0 && lon == 0 {
		issues = append(issues, IssueNullIsland)
	} else if math.Abs(lat) < 0.0001 && math.Abs(lon) < 0.0001 {
		issues = append(issues, IssueNearZero)
	}
	if math.Abs(lat) == 90 {
		issues = append(issues, IssuePole)
	}
	if math.Abs(lon) == 180 {
		issues = append(issues, IssueMeridian180)
	}
	return issues
}

// RejectCoordinates reports whether a pair should be discarded. Outside
// strict mode nothing is rejected here; range violations are handled
// separately. In strict mode null-island and near-zero pairs are rejected,
// pole and meridian flags stay advisory.
func RejectCoordinates(lat, lon float64, strict bool) bool {
	if !strict {
		return false
	}
	for _, issue := range CoordinateIssues(lat, lon) {
		if issue == IssueNullIsland || issue == IssueNearZero {
			return true
		}
	}
	return false
}

// decodePosition extracts one lat/lon pair from the field list. A value
// that fails range validation is discarded alone; a pair flagged rejectable
// under strict mode is discarded together. The sentence itself survives.
func decodePosition(f []string, latIdx, latHemiIdx, lonIdx, lonHemiIdx int, strict bool, typ string) (lat, lon *float64) {
	if v, ok := Degrees(field(f, latIdx), field(f, latHemiIdx)); ok {
		if ValidLatitude(v) {
			lat = &v
		} else {
			log.Printf("nmea: invalid latitude in %s: %v", typ, v)
		}
	}
	if v, ok := Degrees(field(f, lonIdx), field(f, lonHemiIdx)); ok {
		if ValidLongitude(v) {
			lon = &v
		} else {
			log.Printf("nmea: invalid longitude in %s: %v", typ, v)
		}
	}
	if lat == nil || lon == nil {
		return lat, lon
	}
	for _, issue := range CoordinateIssues(*lat, *lon) {
		log.Printf("nmea: %s coordinate issue: %s (lat=%v lon=%v)", typ, issue, *lat, *lon)
	}
	if RejectCoordinates(*lat, *lon, strict) {
		log.Printf("nmea: rejecting %s coordinates in strict mode: lat=%v lon=%v", typ, *lat, *lon)
		return nil, nil
	}
	return lat, lon
}
