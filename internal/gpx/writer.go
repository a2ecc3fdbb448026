// Package gpx serializes track points as a GPX 1.1 document with Garmin
// TrackPointExtension/v2 and nmea extension namespaces.
package gpx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"nmea2gpx/internal/nmea"
	"nmea2gpx/internal/track"
)

const header = `<gpx xmlns="http://www.topografix.com/GPX/1/1" ` +
	`xmlns:nmea="http://www.nmea.org" ` +
	`xmlns:gpxtpx="http://www.garmin.com/xmlschemas/TrackPointExtension/v2" ` +
	`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" ` +
	`creator="nmea2gpx" version="1.1" ` +
	`xsi:schemaLocation="http://www.topografix.com/GPX/1/1 ` +
	`http://www.topografix.com/GPX/1/1/gpx.xsd ` +
	`http://www.garmin.com/xmlschemas/TrackPointExtension/v2 ` +
	`http://www.garmin.com/xmlschemas/TrackPointExtensionv2.xsd">`

// 1 knot in meters per second.
const knotsToMS = 0.514444

const timeLayout = "2006-01-02T15:04:05.000000Z"

// Writer emits a GPX document line by line. Errors stick: after the first
// write failure every call is a no-op and Close reports it.
type Writer struct {
	w         io.Writer
	compact   bool
	err       error
	trackOpen bool
	closed    bool
}

// NewWriter wraps w. In compact mode indentation and newlines are
// stripped; the element structure is unchanged.
func NewWriter(w io.Writer, compact bool) *Writer {
	return &Writer{w: w, compact: compact}
}

// Start writes the XML declaration and the gpx root element.
func (w *Writer) Start() {
	w.line(`<?xml version="1.0" encoding="UTF-8" standalone="no"?>`)
	w.line(header)
}

// StartTrack opens one trk/trkseg pair. name is optional.
func (w *Writer) StartTrack(name string) {
	w.line("  <trk>")
	if name != "" {
		w.line("    <name>" + escape(name) + "</name>")
	}
	w.line("    <trkseg>")
	w.trackOpen = true
}

// EndTrack closes the open trkseg/trk pair.
func (w *Writer) EndTrack() {
	w.line("    </trkseg>")
	w.line("  </trk>")
	w.trackOpen = false
}

// Close ends any open track, closes the root element and returns the first
// write error.
func (w *Writer) Close() error {
	if w.closed {
		return w.err
	}
	if w.trackOpen {
		w.EndTrack()
	}
	w.line("</gpx>")
	w.closed = true
	return w.err
}

// WritePoint emits one trkpt element. Points without a coordinate pair are
// silently skipped; a held RMC/GGA pair from a receiver still searching for
// a fix produces no trackpoint.
func (w *Writer) WritePoint(p *track.Point) {
	if p == nil || (p.RMC == nil && p.GGA == nil) {
		return
	}

	// Prefer the RMC position when present, else GGA.
	var lat, lon *float64
	ts := p.GGATime
	if p.RMC != nil {
		lat, lon = p.RMC.Latitude, p.RMC.Longitude
		ts = p.RMCTime
	} else {
		lat, lon = p.GGA.Latitude, p.GGA.Longitude
	}
	if lat == nil || lon == nil {
		return
	}

	w.line(fmt.Sprintf(`      <trkpt lat="%.8f" lon="%.8f">`, *lat, *lon))
	if p.GGA != nil && p.GGA.Altitude != nil {
		w.line(fmt.Sprintf("        <ele>%.3f</ele>", *p.GGA.Altitude))
	}
	if ts != nil {
		w.line("        <time>" + ts.UTC().Format(timeLayout) + "</time>")
	}
	if p.GGA != nil && nzi(p.GGA.NumSats) {
		w.line(fmt.Sprintf("        <sat>%d</sat>", *p.GGA.NumSats))
	}
	w.writeExtensions(p)
	w.line("      </trkpt>")
}

func (w *Writer) writeExtensions(p *track.Point) {
	w.line("        <extensions>")
	w.writeTPX(p)
	if p.RMC != nil && nzf(p.RMC.MagVar) {
		w.line(fmt.Sprintf("          <nmea:magvar>%.2f</nmea:magvar>", *p.RMC.MagVar))
	}
	if p.GGA != nil {
		w.writeGGAExtensions(p.GGA)
	}
	if p.GSA != nil {
		w.writeGSAExtensions(p.GSA)
	}
	if p.VTG != nil {
		w.writeVTGExtensions(p.VTG)
	}
	if p.GSV != nil {
		w.writeGSVExtensions(p.GSV)
	}
	w.line("        </extensions>")
}

// writeTPX emits the Garmin TrackPointExtension block: speed in m/s,
// course and HDOP, each taken from at most one source (RMC and GSA
// preferred over VTG and GGA). The block opens only when one of the
// gating fields is present and non-zero.
func (w *Writer) writeTPX(p *track.Point) {
	var rmcSpeed, rmcCourse, vtgTrack, vtgKmh, gsaHDOP, ggaHDOP *float64
	if p.RMC != nil {
		rmcSpeed, rmcCourse = p.RMC.SpeedKt, p.RMC.Course
	}
	if p.VTG != nil {
		vtgTrack, vtgKmh = p.VTG.TrueTrack, p.VTG.SpeedKmh
	}
	if p.GSA != nil {
		gsaHDOP = p.GSA.HDOP
	}
	if p.GGA != nil {
		ggaHDOP = p.GGA.HDOP
	}

	if !nzf(rmcSpeed) && !nzf(vtgTrack) && !nzf(gsaHDOP) && !nzf(ggaHDOP) {
		return
	}

	w.line("          <gpxtpx:TrackPointExtension>")
	if nzf(rmcSpeed) {
		w.line(fmt.Sprintf("            <gpxtpx:speed>%.3f</gpxtpx:speed>", *rmcSpeed*knotsToMS))
	} else if nzf(vtgKmh) {
		w.line(fmt.Sprintf("            <gpxtpx:speed>%.3f</gpxtpx:speed>", *vtgKmh/3.6))
	}
	if nzf(rmcCourse) {
		w.line(fmt.Sprintf("            <gpxtpx:course>%.2f</gpxtpx:course>", *rmcCourse))
	} else if nzf(vtgTrack) {
		w.line(fmt.Sprintf("            <gpxtpx:course>%.2f</gpxtpx:course>", *vtgTrack))
	}
	if nzf(gsaHDOP) {
		w.line(fmt.Sprintf("            <gpxtpx:hdop>%.2f</gpxtpx:hdop>", *gsaHDOP))
	} else if nzf(ggaHDOP) {
		w.line(fmt.Sprintf("            <gpxtpx:hdop>%.2f</gpxtpx:hdop>", *ggaHDOP))
	}
	w.line("          </gpxtpx:TrackPointExtension>")
}

func (w *Writer) writeGGAExtensions(gga *nmea.GGA) {
	if nzi(gga.FixQuality) {
		w.line(fmt.Sprintf("          <nmea:fix_quality>%d</nmea:fix_quality>", *gga.FixQuality))
	}
	// Geoid height only makes sense alongside an altitude.
	if nzf(gga.Altitude) && nzf(gga.GeoidHeight) {
		w.line(fmt.Sprintf("          <nmea:geoid_height>%.3f</nmea:geoid_height>", *gga.GeoidHeight))
	}
	if nzf(gga.DGPSAge) {
		w.line(fmt.Sprintf("          <nmea:dgps_age>%.1f</nmea:dgps_age>", *gga.DGPSAge))
	}
	if nzi(gga.DGPSStation) {
		w.line(fmt.Sprintf("          <nmea:dgps_station>%d</nmea:dgps_station>", *gga.DGPSStation))
	}
}

func (w *Writer) writeGSAExtensions(gsa *nmea.GSA) {
	if nzi(gsa.FixType) {
		w.line(fmt.Sprintf("          <nmea:fix_type>%d</nmea:fix_type>", *gsa.FixType))
	}
	if nzf(gsa.PDOP) {
		w.line(fmt.Sprintf("          <nmea:pdop>%.2f</nmea:pdop>", *gsa.PDOP))
	}
	if nzf(gsa.VDOP) {
		w.line(fmt.Sprintf("          <nmea:vdop>%.2f</nmea:vdop>", *gsa.VDOP))
	}
	if len(gsa.ActiveSats) > 0 {
		ids := make([]string, len(gsa.ActiveSats))
		for i, id := range gsa.ActiveSats {
			ids[i] = strconv.Itoa(id)
		}
		w.line("          <nmea:active_sats>" + strings.Join(ids, ",") + "</nmea:active_sats>")
	}
}

func (w *Writer) writeVTGExtensions(vtg *nmea.VTG) {
	if nzf(vtg.MagTrack) {
		w.line(fmt.Sprintf("          <nmea:mag_track>%.2f</nmea:mag_track>", *vtg.MagTrack))
	}
	if nzf(vtg.SpeedKt) {
		w.line(fmt.Sprintf("          <nmea:speed_knots>%.3f</nmea:speed_knots>", *vtg.SpeedKt))
	}
}

func (w *Writer) writeGSVExtensions(gsv *nmea.GSV) {
	if len(gsv.Satellites) == 0 {
		return
	}
	w.line("          <nmea:satellites>")
	sats := gsv.Satellites
	if len(sats) > 4 {
		sats = sats[:4]
	}
	for _, sat := range sats {
		w.line("            <nmea:sat>")
		w.line(fmt.Sprintf("              <nmea:prn>%d</nmea:prn>", sat.PRN))
		if sat.Elevation != nil {
			w.line(fmt.Sprintf("              <nmea:elevation>%d</nmea:elevation>", *sat.Elevation))
		}
		if sat.Azimuth != nil {
			w.line(fmt.Sprintf("              <nmea:azimuth>%d</nmea:azimuth>", *sat.Azimuth))
		}
		if sat.SNR != nil {
			w.line(fmt.Sprintf("              <nmea:snr>%d</nmea:snr>", *sat.SNR))
		}
		w.line("            </nmea:sat>")
	}
	w.line("          </nmea:satellites>")
}

func (w *Writer) line(s string) {
	if w.err != nil {
		return
	}
	if w.compact {
		_, w.err = io.WriteString(w.w, strings.TrimSpace(s))
		return
	}
	_, w.err = io.WriteString(w.w, s+"\n")
}

// nzf reports present-and-non-zero for optional floats; zero values are
// treated as "no data" throughout the extension schema.
func nzf(p *float64) bool { return p != nil && *p != 0 }

func nzi(p *int) bool { return p != nil && *p != 0 }

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
