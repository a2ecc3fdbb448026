// Package track fuses independently-arriving NMEA sentences into track
// points. Receivers emit complementary sentence types at different rates
// and in no fixed order, so elapsed wall-clock time between the
// position-bearing sentences (RMC, GGA) is the correlation key.
package track

import (
	"math"
	"time"

	"nmea2gpx/internal/nmea"
)

// Point bundles at most one sentence of each type describing the same
// real-world positioning moment. RMCTime/GGATime are the fully-dated UTC
// timestamps for the respective fixes, when a date was available; the
// sentences themselves stay untouched.
type Point struct {
	RMC *nmea.RMC
	GGA *nmea.GGA
	GSA *nmea.GSA
	VTG *nmea.VTG
	GSV *nmea.GSV

	RMCTime *time.Time
	GGATime *time.Time
}

// DefaultWindow is the maximum time-of-day gap between position-bearing
// sentences for them to describe the same fix.
const DefaultWindow = time.Second

// Grouper is the accumulator for one input stream. It must not be shared
// across streams; create one per file and Flush it at end of input.
type Grouper struct {
	window float64 // seconds

	rmc *nmea.RMC
	gga *nmea.GGA
	gsa *nmea.GSA
	vtg *nmea.VTG
	gsv *nmea.GSV

	lastTime *nmea.TimeOfDay
	// date is inherited from the most recent RMC that carried one, so
	// GGA-only stretches still get full timestamps.
	date *nmea.Date
}

func NewGrouper(window time.Duration) *Grouper {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Grouper{window: window.Seconds()}
}

// Add feeds one decoded sentence and returns a completed point when the
// incoming sentence closed one, or nil while accumulation continues.
func (g *Grouper) Add(s nmea.Sentence) *Point {
	var out *Point
	var msgTime *nmea.TimeOfDay

	switch v := s.(type) {
	case *nmea.RMC:
		msgTime = v.Time
	case *nmea.GGA:
		msgTime = v.Time
	default:
		// Non-position sentences never trigger the window.
	}

	if msgTime != nil && g.lastTime != nil {
		diff := math.Abs(msgTime.SecondsOfDay() - g.lastTime.SecondsOfDay())
		if diff > g.window {
			out = g.emit()
		}
	}

	switch v := s.(type) {
	case *nmea.RMC:
		// A second RMC while an RMC+GGA pair is pending starts a new
		// moment even inside the window.
		if g.rmc != nil && g.gga != nil {
			out = g.emit()
		}
		g.rmc = v
		g.lastTime = msgTime
		if msgTime != nil && v.Date != nil {
			g.date = v.Date
		}
	case *nmea.GGA:
		if g.gga != nil && g.rmc != nil {
			out = g.emit()
		}
		g.gga = v
		g.lastTime = msgTime
	case *nmea.GSA:
		g.gsa = v
	case *nmea.VTG:
		g.vtg = v
	case *nmea.GSV:
		g.gsv = v
	}
	return out
}

// Flush emits whatever is still pending at end of input, or nil when no
// position-bearing sentence is held.
func (g *Grouper) Flush() *Point {
	return g.emit()
}

// emit builds a point from current state when a pending position sentence
// actually carries coordinates; a held searching-state pair produces
// nothing. The per-fix slots are cleared either way. GSA and GSV update
// less frequently than once per fix and survive, as does the inherited
// date.
func (g *Grouper) emit() *Point {
	var out *Point
	rmcFix := g.rmc != nil && g.rmc.Latitude != nil && g.rmc.Longitude != nil
	ggaFix := g.gga != nil && g.gga.Latitude != nil && g.gga.Longitude != nil
	if rmcFix || ggaFix {
		out = g.point()
	}
	g.rmc = nil
	g.gga = nil
	g.vtg = nil
	g.lastTime = nil
	return out
}

func (g *Grouper) point() *Point {
	p := &Point{RMC: g.rmc, GGA: g.gga, GSA: g.gsa, VTG: g.vtg, GSV: g.gsv}

	// Prefer the pending RMC's own date, else the inherited one.
	date := g.date
	if g.rmc != nil && g.rmc.Date != nil {
		date = g.rmc.Date
	}
	if date == nil {
		return p
	}
	if g.rmc != nil && g.rmc.Time != nil {
		t := date.At(*g.rmc.Time)
		p.RMCTime = &t
	}
	if g.gga != nil && g.gga.Time != nil {
		t := date.At(*g.gga.Time)
		p.GGATime = &t
	}
	return p
}
