package core

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"factory/pkg/progress"
)

// Options controls how records are materialized
type Options struct {
	Root    string       // Extraction root, defaults to the working directory
	DryRun  bool         // Report records without touching the filesystem
	Confine bool         // Reject paths that walk out of Root via ".."
	Out     io.Writer    // Destination of status lines, defaults to stdout
	Logger  *slog.Logger // Defaults to slog.Default()
}

// Summary describes a finished extraction
type Summary struct {
	Blocks  int    // Records reported
	Written int    // Files written, zero on dry run
	Bytes   uint64 // Payload bytes across all records
	DryRun  bool
}

// Extract reports every record and, unless DryRun is set, writes its payload
// under Root. Records are processed in order and the first failure aborts
// the run; files written before it are kept.
func Extract(records []Record, opts Options) (*Summary, error) {
	opts = opts.withDefaults()
	summary := &Summary{DryRun: opts.DryRun}

	for i, rec := range records {
		if _, err := fmt.Fprintf(opts.Out, "Block %d: %q size %d\n", i, rec.Path, len(rec.Payload)); err != nil {
			return summary, fmt.Errorf("report block %d: %w", i, err)
		}
		summary.Blocks++
		summary.Bytes += uint64(len(rec.Payload))

		rel := NormalizePath(rec.Path)
		if opts.DryRun {
			opts.Logger.Debug("dry run, skipping write", "block", i, "path", rel)
			continue
		}

		dest, err := destPath(opts.Root, rel, opts.Confine)
		if err != nil {
			return summary, fmt.Errorf("block %d %q: %w", i, rec.Path, err)
		}
		if err := writeRecord(dest, rec.Payload); err != nil {
			return summary, fmt.Errorf("%w: block %d: %w", ErrWrite, i, err)
		}
		summary.Written++
		opts.Logger.Debug("wrote record", "block", i, "path", dest, "size", len(rec.Payload))
	}

	return summary, nil
}

// NormalizePath strips exactly one leading separator so absolute archive
// paths land under the extraction root. Other paths are returned unchanged.
func NormalizePath(p string) string {
	return strings.TrimPrefix(p, "/")
}

// withDefaults fills unset options
func (o Options) withDefaults() Options {
	if o.Root == "" {
		o.Root = "."
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// destPath joins a normalized record path onto root
func destPath(root, rel string, confine bool) (string, error) {
	if rel == "" {
		return "", ErrEmptyPath
	}
	dest := filepath.Join(root, rel)
	if confine {
		inside, err := filepath.Rel(root, dest)
		if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("%w: %s", ErrPathEscapesRoot, rel)
		}
	}
	return dest, nil
}

// writeRecord creates the parent directories of dest and writes payload,
// truncating any existing file
func writeRecord(dest string, payload []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", dest, err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}

	pw := &progress.Writer{W: f}
	if _, err := io.Copy(pw, bytes.NewReader(payload)); err != nil {
		f.Close()
		return fmt.Errorf("copy %s: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}
	return nil
}

// ExtractFile loads, parses and extracts the archive at path. Nothing is
// written unless the whole archive parses.
func ExtractFile(path string, c Compression, opts Options) (*Summary, error) {
	data, _, err := Load(path, c)
	if err != nil {
		return nil, err
	}
	records, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if !opts.DryRun {
		var total uint64
		for _, rec := range records {
			total += uint64(len(rec.Payload))
		}
		progress.Init(total)
		defer progress.Stop()
	}

	return Extract(records, opts)
}
