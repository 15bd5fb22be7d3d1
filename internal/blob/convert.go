// Package blob converts disc images between the plain and compressed formats
// by driving the external converter and reporting its progress.
package blob

import (
	"context"
	"encoding/binary"
	"io"
	"strconv"
	"time"

	"gamelist/internal/errors"
	"gamelist/internal/log"
	"gamelist/internal/process"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
)

// ProgressFunc receives a status text and a completed fraction in [0, 1].
// Returning false aborts the conversion.
type ProgressFunc func(text string, fraction float64) bool

// Format is a converter output format
type Format string

const (
	FormatGCZ Format = "gcz"
	FormatISO Format = "iso"
)

// Options configures the converter
type Options struct {
	Converter    string        // converter binary
	BlockSize    int           // GCZ block size
	PollInterval time.Duration // how often the output size is checked
}

// Request describes one conversion
type Request struct {
	Source      string
	Destination string
	Format      Format
	Scrub       bool // drop unused Wii disc padding
}

// Tool converts disc images with the external converter
type Tool struct {
	runner process.Runner
	fs     afero.Fs
	clock  clockwork.Clock
	opts   Options
}

// NewTool creates a converter. A nil clock uses the real clock.
func NewTool(runner process.Runner, fs afero.Fs, clock clockwork.Clock, opts Options) *Tool {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 250 * time.Millisecond
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = 16384
	}
	return &Tool{runner: runner, fs: fs, clock: clock, opts: opts}
}

// Compress writes src to dst as GCZ
func (t *Tool) Compress(ctx context.Context, src, dst string, scrub bool, progress ProgressFunc) error {
	return t.Convert(ctx, Request{Source: src, Destination: dst, Format: FormatGCZ, Scrub: scrub}, progress)
}

// Decompress writes src to dst as a plain disc image
func (t *Tool) Decompress(ctx context.Context, src, dst string, progress ProgressFunc) error {
	return t.Convert(ctx, Request{Source: src, Destination: dst, Format: FormatISO}, progress)
}

func (r Request) operation() string {
	if r.Format == FormatGCZ {
		return "compress"
	}
	return "decompress"
}

// Convert runs one conversion to completion. Progress is estimated from the
// size of the output file. When progress returns false the converter is
// stopped, the partial output removed, and an error wrapping
// errors.ErrCancelled returned.
func (t *Tool) Convert(ctx context.Context, req Request, progress ProgressFunc) error {
	if progress == nil {
		progress = func(string, float64) bool { return true }
	}
	op := req.operation()
	logger := log.LogWithFields(log.F("operation", op), log.F("source", req.Source), log.F("destination", req.Destination))

	total, err := t.expectedSize(req)
	if err != nil {
		return errors.NewOperationError(op, req.Source, errors.OperationFailed, err)
	}

	text := "Compressing..."
	if req.Format == FormatISO {
		text = "Decompressing..."
	}
	if !progress(text, 0) {
		return errors.NewOperationError(op, req.Source, errors.OperationFailed, errors.ErrCancelled)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	proc, err := t.runner.Start(runCtx, t.opts.Converter, t.args(req)...)
	if err != nil {
		return errors.NewOperationError(op, req.Source, errors.OperationFailed, err)
	}
	done := make(chan error, 1)
	go func() { done <- proc.Wait() }()

	ticker := t.clock.NewTicker(t.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			if err != nil {
				t.removePartial(req.Destination)
				if ctx.Err() != nil {
					err = ctx.Err()
				}
				logger.Errorf("conversion failed: %v", err)
				return errors.NewOperationError(op, req.Source, errors.OperationFailed, err)
			}
			progress(text, 1)
			logger.Info("Conversion finished")
			return nil

		case <-ticker.Chan():
			if progress(text, t.fraction(req.Destination, total)) {
				continue
			}
			cancel()
			<-done
			t.removePartial(req.Destination)
			logger.Info("Conversion cancelled")
			return errors.NewOperationError(op, req.Source, errors.OperationFailed, errors.ErrCancelled)
		}
	}
}

func (t *Tool) args(req Request) []string {
	args := []string{"convert", "-i", req.Source, "-o", req.Destination, "-f", string(req.Format)}
	if req.Format == FormatGCZ {
		args = append(args, "-b", strconv.Itoa(t.opts.BlockSize))
	}
	if req.Scrub {
		args = append(args, "-s")
	}
	return args
}

// expectedSize guesses the output size: the source size when compressing,
// and the data size in the GCZ header when decompressing.
func (t *Tool) expectedSize(req Request) (int64, error) {
	info, err := t.fs.Stat(req.Source)
	if err != nil {
		return 0, err
	}
	if req.Format != FormatISO {
		return info.Size(), nil
	}

	f, err := t.fs.Open(req.Source)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	hdr := make([]byte, 24)
	if _, err := io.ReadFull(f, hdr); err != nil || binary.LittleEndian.Uint32(hdr) != 0xB10BC001 {
		return info.Size(), nil
	}
	return int64(binary.LittleEndian.Uint64(hdr[16:])), nil
}

func (t *Tool) fraction(dst string, total int64) float64 {
	info, err := t.fs.Stat(dst)
	if err != nil || total <= 0 {
		return 0
	}
	frac := float64(info.Size()) / float64(total)
	// Only the converter's exit means done
	if frac > 0.99 {
		frac = 0.99
	}
	return frac
}

func (t *Tool) removePartial(dst string) {
	if err := t.fs.Remove(dst); err != nil && !errors.Is(err, afero.ErrFileNotFound) {
		log.LogWithFields(log.F("path", dst)).Warnf("cannot remove partial output: %v", err)
	}
}
