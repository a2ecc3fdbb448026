package nmea

import (
	"log"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a UTC wall-clock time decoded from an hhmmss field.
// Fractional seconds, when present in the field, are not carried.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// SecondsOfDay returns seconds since midnight, the correlation key used
// when fusing sentences into track points.
func (t TimeOfDay) SecondsOfDay() float64 {
	return float64(t.Hour*3600 + t.Minute*60 + t.Second)
}

// Date is a UTC calendar date decoded from a ddmmyy field (20xx assumed).
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// At combines the date with a time-of-day into a full UTC timestamp.
func (d Date) At(t TimeOfDay) time.Time {
	return time.Date(d.Year, d.Month, d.Day, t.Hour, t.Minute, t.Second, 0, time.UTC)
}

// RMC - Recommended Minimum Navigation Information.
//
//	$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A
//
//	0: time (hhmmss)        5: E/W
//	1: status (A=ok V=void) 6: speed over ground (knots)
//	2: latitude (ddmm.mmmm) 7: track angle (deg true)
//	3: N/S                  8: date (ddmmyy)
//	4: longitude            9,10: magnetic variation, E/W
type RMC struct {
	Header
	Time      *TimeOfDay
	Date      *Date
	Valid     bool // status field, A=valid
	Latitude  *float64
	Longitude *float64
	SpeedKt   *float64
	Course    *float64
	MagVar    *float64
}

// GGA - Global Positioning System Fix Data.
//
//	$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47
//
//	0: time            7: HDOP
//	1,2: latitude, N/S 8: altitude (m, MSL)
//	3,4: longitude,E/W 10: geoid height (m)
//	5: fix quality     12: DGPS age (s)
//	6: satellite count 13: DGPS station id
type GGA struct {
	Header
	Time        *TimeOfDay
	Latitude    *float64
	Longitude   *float64
	FixQuality  *int
	NumSats     *int
	HDOP        *float64
	Altitude    *float64
	GeoidHeight *float64
	DGPSAge     *float64
	DGPSStation *int
}

// GSA - GPS DOP and active satellites.
//
//	$GPGSA,A,3,04,05,09,12,,,,,,,,,2.5,1.3,2.1*39
//
//	0: selection mode (A/M)  2..13: ids of satellites in use
//	1: fix type (1/2/3)      14,15,16: PDOP, HDOP, VDOP
type GSA struct {
	Header
	ModeAuto   string
	FixType    *int
	ActiveSats []int
	PDOP       *float64
	HDOP       *float64
	VDOP       *float64
}

// VTG - Track made good and ground speed.
//
//	$GPVTG,054.7,T,034.4,M,005.5,N,010.2,K*48
type VTG struct {
	Header
	TrueTrack *float64
	MagTrack  *float64
	SpeedKt   *float64
	SpeedKmh  *float64
}

// GSVSatellite is one satellite descriptor from a GSV sentence. Every
// component besides the id may be absent.
type GSVSatellite struct {
	PRN       int
	Elevation *int
	Azimuth   *int
	SNR       *int
}

// GSV - Satellites in view. One message carries up to 4 descriptors.
//
//	$GPGSV,3,1,11,03,03,111,00,04,15,270,00,06,01,010,00,13,06,292,00*74
type GSV struct {
	Header
	NumMessages int
	MsgNum      int
	SatsInView  int
	Satellites  []GSVSatellite
}

// field returns the trimmed field at index i, or "" when the list is too
// short. Sentences arrive ragged; a missing field means absent.
func field(f []string, i int) string {
	if i >= 0 && i < len(f) {
		return strings.TrimSpace(f[i])
	}
	return ""
}

func optFloat(f []string, i int) *float64 {
	s := field(f, i)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Printf("nmea: ignoring bad numeric field %q at index %d", s, i)
		return nil
	}
	return &v
}

func optInt(f []string, i int) *int {
	s := field(f, i)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("nmea: ignoring bad integer field %q at index %d", s, i)
		return nil
	}
	return &v
}

// optTime decodes the first six digits of an hhmmss(.sss) field. Any parse
// failure is absorbed: the value is simply absent.
func optTime(f []string, i int) *TimeOfDay {
	s := field(f, i)
	if len(s) < 6 {
		return nil
	}
	h, err1 := strconv.Atoi(s[0:2])
	m, err2 := strconv.Atoi(s[2:4])
	sec, err3 := strconv.Atoi(s[4:6])
	if err1 != nil || err2 != nil || err3 != nil {
		return nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return nil
	}
	return &TimeOfDay{Hour: h, Minute: m, Second: sec}
}

// optDate decodes a ddmmyy field, assuming years 2000-2099.
func optDate(f []string, i int) *Date {
	s := field(f, i)
	if len(s) < 6 {
		return nil
	}
	d, err1 := strconv.Atoi(s[0:2])
	mo, err2 := strconv.Atoi(s[2:4])
	y, err3 := strconv.Atoi(s[4:6])
	if err1 != nil || err2 != nil || err3 != nil {
		return nil
	}
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return nil
	}
	return &Date{Year: 2000 + y, Month: time.Month(mo), Day: d}
}

func decodeRMC(hdr Header, f []string, strict bool) Sentence {
	s := &RMC{Header: hdr}
	s.Time = optTime(f, 0)
	s.Valid = field(f, 1) == "A"
	s.Latitude, s.Longitude = decodePosition(f, 2, 3, 4, 5, strict, hdr.TypeID)
	s.SpeedKt = optFloat(f, 6)
	s.Course = optFloat(f, 7)
	s.Date = optDate(f, 8)
	if mv := optFloat(f, 9); mv != nil {
		if field(f, 10) == "W" {
			*mv = -*mv
		}
		s.MagVar = mv
	}
	return s
}

func decodeGGA(hdr Header, f []string, strict bool) Sentence {
	s := &GGA{Header: hdr}
	s.Time = optTime(f, 0)
	s.Latitude, s.Longitude = decodePosition(f, 1, 2, 3, 4, strict, hdr.TypeID)
	s.FixQuality = optInt(f, 5)
	s.NumSats = optInt(f, 6)
	s.HDOP = optFloat(f, 7)
	s.Altitude = optFloat(f, 8)
	s.GeoidHeight = optFloat(f, 10)
	s.DGPSAge = optFloat(f, 12)
	s.DGPSStation = optInt(f, 13)
	return s
}

func decodeGSA(hdr Header, f []string, _ bool) Sentence {
	s := &GSA{Header: hdr}
	s.ModeAuto = field(f, 0)
	s.FixType = optInt(f, 1)
	for i := 2; i < 14; i++ {
		if id := optInt(f, i); id != nil {
			s.ActiveSats = append(s.ActiveSats, *id)
		}
	}
	s.PDOP = optFloat(f, 14)
	s.HDOP = optFloat(f, 15)
	s.VDOP = optFloat(f, 16)
	return s
}

func decodeVTG(hdr Header, f []string, _ bool) Sentence {
	return &VTG{
		Header:    hdr,
		TrueTrack: optFloat(f, 0),
		MagTrack:  optFloat(f, 2),
		SpeedKt:   optFloat(f, 4),
		SpeedKmh:  optFloat(f, 6),
	}
}

func decodeGSV(hdr Header, f []string, _ bool) Sentence {
	s := &GSV{Header: hdr}
	if v := optInt(f, 0); v != nil {
		s.NumMessages = *v
	}
	if v := optInt(f, 1); v != nil {
		s.MsgNum = *v
	}
	if v := optInt(f, 2); v != nil {
		s.SatsInView = *v
	}
	for i := 0; i < 4; i++ {
		base := 3 + i*4
		prn := optInt(f, base)
		if prn == nil {
			// A slot without an id is empty.
			continue
		}
		s.Satellites = append(s.Satellites, GSVSatellite{
			PRN:       *prn,
			Elevation: optInt(f, base+1),
			Azimuth:   optInt(f, base+2),
			SNR:       optInt(f, base+3),
		})
	}
	return s
}
