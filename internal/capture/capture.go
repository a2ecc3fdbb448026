// Package capture records raw NMEA sentences from a serial GPS receiver
// into a log file that the converter can process later. Lines are written
// verbatim; checksum filtering happens at conversion time so the recorded
// log stays a faithful copy of the receiver output.
package capture

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.bug.st/serial"
)

type Config struct {
	// Device is the serial device path, e.g. /dev/ttyACM0.
	Device string
	// Baud defaults to 9600, the usual NMEA rate.
	Baud int
}

type Recorder struct {
	cfg Config
}

func New(cfg Config) (*Recorder, error) {
	if cfg.Device == "" {
		return nil, fmt.Errorf("capture: device is required")
	}
	if cfg.Baud <= 0 {
		cfg.Baud = 9600
	}
	return &Recorder{cfg: cfg}, nil
}

// ListPorts enumerates serial ports available on the host.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}

// Run copies sentences from the serial device to w until ctx is cancelled.
// It returns the number of lines written. Cancellation closes the port,
// which unblocks the read loop.
func (r *Recorder) Run(ctx context.Context, w io.Writer) (int, error) {
	port, err := serial.Open(r.cfg.Device, &serial.Mode{BaudRate: r.cfg.Baud})
	if err != nil {
		return 0, fmt.Errorf("capture: open %s: %w", r.cfg.Device, err)
	}
	go func() {
		<-ctx.Done()
		port.Close()
	}()

	n, err := pump(port, w)
	if ctx.Err() != nil {
		// Port closed by cancellation; the read error is expected.
		return n, nil
	}
	port.Close()
	return n, err
}

// pump copies newline-delimited lines from r to w, normalizing CRLF and
// skipping blank lines.
func pump(r io.Reader, w io.Writer) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 64*1024)
	lines := 0
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return lines, err
		}
		lines++
	}
	return lines, sc.Err()
}
