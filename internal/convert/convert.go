// Package convert drives the file-to-file conversion: glob expansion,
// per-file decode/group/serialize pipelines, the optional raw
// concatenation, backup copy and source deletion.
package convert

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"nmea2gpx/internal/gpx"
	"nmea2gpx/internal/nmea"
	"nmea2gpx/internal/track"
)

type Options struct {
	// Patterns are glob patterns over input files; each must match at
	// least one file.
	Patterns []string
	// Output is the GPX destination path.
	Output string

	// Backup, when set, receives a copy of the finished GPX file.
	Backup string
	// RawOutput, when set, receives all input files concatenated with
	// NUL bytes stripped.
	RawOutput string
	// DeleteSource removes successfully converted input files.
	DeleteSource bool

	TrackName string
	Window    time.Duration
	Strict    bool
	Compact   bool
}

// ExpandPatterns resolves glob patterns to a sorted file list. A pattern
// matching nothing is an error.
func ExpandPatterns(patterns []string) ([]string, error) {
	var files []string
	for _, pat := range patterns {
		matches, err := filepath.Glob(pat)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pat, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match pattern: %s", pat)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// Run converts all matched input files into one GPX track. Files are
// processed strictly sequentially, each with its own grouping accumulator
// flushed at end of file, all appending to a single track segment. A file
// that cannot be read is logged and skipped; the run continues.
func Run(opts Options) error {
	if opts.Output == "" {
		return fmt.Errorf("output path is required")
	}
	files, err := ExpandPatterns(opts.Patterns)
	if err != nil {
		return err
	}

	if opts.RawOutput != "" {
		if err := writeRaw(files, opts.RawOutput); err != nil {
			log.Printf("convert: raw output failed: %v", err)
		}
	}

	out, err := os.Create(opts.Output)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.Output, err)
	}
	defer out.Close()

	w := gpx.NewWriter(out, opts.Compact)
	w.Start()
	w.StartTrack(opts.TrackName)

	var processed []string
	for _, f := range files {
		if err := convertFile(f, w, opts); err != nil {
			log.Printf("convert: error processing %s: %v", f, err)
			continue
		}
		processed = append(processed, f)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("write %s: %w", opts.Output, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", opts.Output, err)
	}

	if opts.Backup != "" {
		if err := backup(opts.Output, opts.Backup); err != nil {
			// The conversion itself succeeded; a failed backup is not fatal.
			log.Printf("convert: backup to %s failed: %v", opts.Backup, err)
		}
	}
	if opts.DeleteSource && len(processed) > 0 {
		deleteSources(processed)
	}
	return nil
}

// convertFile runs the lazy line -> sentence -> point pipeline for one
// input file and appends its points to the open writer.
func convertFile(path string, w *gpx.Writer, opts Options) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	log.Printf("convert: processing %s", path)
	sc := nmea.NewScanner(f, opts.Strict)
	g := track.NewGrouper(opts.Window)
	points := 0
	for sc.Scan() {
		if p := g.Add(sc.Sentence()); p != nil {
			w.WritePoint(p)
			points++
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if p := g.Flush(); p != nil {
		w.WritePoint(p)
		points++
	}
	if n := sc.Dropped(); n > 0 {
		log.Printf("convert: %s: dropped %d undecodable lines", path, n)
	}
	log.Printf("convert: %s: %d points", path, points)
	return nil
}

// writeRaw concatenates input files into one, stripping NUL bytes and
// dropping lines that are empty after stripping. Per-file errors are
// logged; remaining files are still written.
func writeRaw(files []string, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	bw := bufio.NewWriter(out)
	for _, path := range files {
		if err := appendRaw(bw, path); err != nil {
			log.Printf("convert: error concatenating %s: %v", path, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return out.Close()
}

func appendRaw(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			cleaned := bytes.ReplaceAll(line, []byte{0}, nil)
			if len(bytes.TrimSpace(cleaned)) > 0 {
				if _, werr := w.Write(cleaned); werr != nil {
					return werr
				}
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// backup copies src to dst, creating parent directories as needed.
func backup(src, dst string) error {
	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	log.Printf("convert: created backup at %s", dst)
	return nil
}

// deleteSources removes converted input files. Individual failures are
// logged, never fatal.
func deleteSources(files []string) {
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			log.Printf("convert: failed to delete source file %s: %v", f, err)
			continue
		}
		log.Printf("convert: deleted source file %s", f)
	}
}
