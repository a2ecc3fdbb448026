package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Full(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
convert:
  output: track.gpx
  backup: /mnt/backup/track.gpx
  raw_output: all.nmea
  delete_source: true
  track_name: morning ride
  window: 2s
  strict: true
  compact: true
capture:
  device: /dev/ttyACM0
  baud: 115200
  output: capture.nmea
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Convert.Output != "track.gpx" {
		t.Fatalf("unexpected output: %q", cfg.Convert.Output)
	}
	if cfg.Convert.Window != 2*time.Second {
		t.Fatalf("unexpected window: %v", cfg.Convert.Window)
	}
	if !cfg.Convert.Strict || !cfg.Convert.Compact || !cfg.Convert.DeleteSource {
		t.Fatalf("boolean options not parsed: %+v", cfg.Convert)
	}
	if cfg.Convert.TrackName != "morning ride" {
		t.Fatalf("unexpected track name: %q", cfg.Convert.TrackName)
	}
	if cfg.Capture.Device != "/dev/ttyACM0" || cfg.Capture.Baud != 115200 {
		t.Fatalf("capture section not parsed: %+v", cfg.Capture)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
convert:
  output: track.gpx
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Convert.Window != time.Second {
		t.Fatalf("expected default window 1s, got %v", cfg.Convert.Window)
	}
	if cfg.Capture.Baud != 9600 {
		t.Fatalf("expected default baud 9600, got %d", cfg.Capture.Baud)
	}
}

func TestLoad_NegativeWindowRejected(t *testing.T) {
	_, err := Load(writeConfig(t, `
convert:
  window: -1s
`))
	if err == nil {
		t.Fatalf("expected error for negative window")
	}
}

func TestLoad_DeviceWithoutOutputRejected(t *testing.T) {
	_, err := Load(writeConfig(t, `
capture:
  device: /dev/ttyACM0
`))
	if err == nil {
		t.Fatalf("expected error for capture device without output")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "convert: [not a map"))
	if err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}
