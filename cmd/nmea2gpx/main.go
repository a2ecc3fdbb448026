// Command nmea2gpx converts NMEA GPS logs to a GPX track file.
//
//	nmea2gpx -o track.gpx "/Volume/sdcard/*.ubx" "*.nmea"
//
// Flags override values from the optional YAML config.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"nmea2gpx/internal/config"
	"nmea2gpx/internal/convert"
	"nmea2gpx/internal/nmea"
	"nmea2gpx/internal/track"
)

func main() {
	var (
		configPath   string
		output       string
		backupPath   string
		rawOutput    string
		trackName    string
		deleteSource bool
		strict       bool
		compact      bool
		verbose      bool
		window       time.Duration
	)
	flag.StringVar(&configPath, "config", "", "path to optional YAML config")
	flag.StringVar(&output, "o", "", "output GPX file")
	flag.StringVar(&backupPath, "b", "", "create a backup copy of the output file at this location")
	flag.BoolVar(&deleteSource, "d", false, "delete source files after successful conversion")
	flag.StringVar(&rawOutput, "r", "", "write concatenated raw input to this file")
	flag.StringVar(&trackName, "name", "", "track name")
	flag.DurationVar(&window, "window", track.DefaultWindow, "grouping window between position sentences")
	flag.BoolVar(&strict, "strict", false, "reject suspicious coordinates (null island, near zero)")
	flag.BoolVar(&compact, "compact", false, "write compact GPX")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] PATTERN...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	opts := convert.Options{
		Patterns:     flag.Args(),
		Output:       output,
		Backup:       backupPath,
		RawOutput:    rawOutput,
		DeleteSource: deleteSource,
		TrackName:    trackName,
		Window:       window,
		Strict:       strict,
		Compact:      compact,
	}

	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			log.Fatalf("config load failed: %v", err)
		}
		applyConfig(&opts, cfg.Convert, set)
	}

	if len(opts.Patterns) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if opts.Output == "" {
		log.Fatalf("output file is required (-o or convert.output in config)")
	}

	nmea.Debug = verbose
	if err := convert.Run(opts); err != nil {
		log.Fatalf("conversion failed: %v", err)
	}
}

// applyConfig fills options from the config file for flags the user did
// not set explicitly.
func applyConfig(opts *convert.Options, cfg config.ConvertConfig, set map[string]bool) {
	if !set["o"] && cfg.Output != "" {
		opts.Output = cfg.Output
	}
	if !set["b"] && cfg.Backup != "" {
		opts.Backup = cfg.Backup
	}
	if !set["r"] && cfg.RawOutput != "" {
		opts.RawOutput = cfg.RawOutput
	}
	if !set["d"] {
		opts.DeleteSource = cfg.DeleteSource
	}
	if !set["name"] && cfg.TrackName != "" {
		opts.TrackName = cfg.TrackName
	}
	if !set["window"] {
		opts.Window = cfg.Window
	}
	if !set["strict"] {
		opts.Strict = cfg.Strict
	}
	if !set["compact"] {
		opts.Compact = cfg.Compact
	}
}
