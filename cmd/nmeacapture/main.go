// Command nmeacapture records raw NMEA output from a serial GPS receiver
// into a log file for later conversion with nmea2gpx.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"nmea2gpx/internal/capture"
	"nmea2gpx/internal/config"
)

func main() {
	var (
		configPath string
		device     string
		baud       int
		output     string
		list       bool
	)
	flag.StringVar(&configPath, "config", "", "path to optional YAML config")
	flag.StringVar(&device, "dev", "", "serial device path, e.g. /dev/ttyACM0")
	flag.IntVar(&baud, "baud", 9600, "serial baud rate")
	flag.StringVar(&output, "o", "", "output log file (appended)")
	flag.BoolVar(&list, "list", false, "list serial ports and exit")
	flag.Parse()

	if list {
		ports, err := capture.ListPorts()
		if err != nil {
			log.Fatalf("port listing failed: %v", err)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			log.Fatalf("config load failed: %v", err)
		}
		if device == "" {
			device = cfg.Capture.Device
		}
		if baud == 9600 && cfg.Capture.Baud > 0 {
			baud = cfg.Capture.Baud
		}
		if output == "" {
			output = cfg.Capture.Output
		}
	}
	if device == "" || output == "" {
		log.Fatalf("both a device (-dev) and an output file (-o) are required")
	}

	rec, err := capture.New(capture.Config{Device: device, Baud: baud})
	if err != nil {
		log.Fatalf("capture init failed: %v", err)
	}

	out, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("open %s: %v", output, err)
	}
	defer out.Close()
	bw := bufio.NewWriter(out)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Printf("capturing %s at %d baud to %s", device, baud, output)
	n, err := rec.Run(ctx, bw)
	if ferr := bw.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	if err != nil {
		log.Fatalf("capture failed after %d lines: %v", n, err)
	}
	log.Printf("capture stopped, %d lines written", n)
}
