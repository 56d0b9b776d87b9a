// Package reader returns the trailing window of records from a session log.
//
// Two strategies produce the window: an external line-query helper (jq) used
// only as a fast path, and the in-process reader, which is always available
// and always correct. Both yield the same records for the same file.
package reader

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"

	"github.com/suykerbuyk/vibe-context/internal/archive"
	"github.com/suykerbuyk/vibe-context/internal/transcript"
)

// ErrHelperUnavailable is returned when the helper binary cannot be found.
var ErrHelperUnavailable = errors.New("tail helper unavailable")

// Strategy produces the raw trailing lines of a log. Lines are JSON
// candidates; blank lines are never returned.
type Strategy interface {
	Name() string
	Tail(ctx context.Context, path string, n int) ([][]byte, error)
}

// Reader selects a strategy per call: the helper when present and the file
// is plain, otherwise the in-process reader.
type Reader struct {
	helper   Strategy // nil when no helper is configured or found
	fallback Strategy
	log      *zap.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithHelper installs a helper strategy. A nil helper disables the fast path.
func WithHelper(s Strategy) Option {
	return func(r *Reader) { r.helper = s }
}

// WithLogger sets the logger used for fallback diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reader) { r.log = l }
}

// New returns a Reader backed by the in-process strategy.
func New(opts ...Option) *Reader {
	r := &Reader{fallback: InProcess{}, log: zap.NewNop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Tail returns up to n decoded records from the end of the log at path.
// A missing file yields no records and no error. Lines that fail to decode
// are skipped.
func (r *Reader) Tail(ctx context.Context, path string, n int) ([]transcript.Record, error) {
	if n <= 0 {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			r.log.Debug("log not found", zap.String("path", path))
			return nil, nil
		}
		return nil, err
	}

	lines, err := r.tailLines(ctx, path, n)
	if err != nil {
		return nil, err
	}

	records := make([]transcript.Record, 0, len(lines))
	for _, line := range lines {
		rec, err := transcript.Decode(line)
		if err != nil {
			r.log.Debug("skipping malformed line", zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *Reader) tailLines(ctx context.Context, path string, n int) ([][]byte, error) {
	if r.helper != nil && !archive.IsCompressed(path) {
		lines, err := r.helper.Tail(ctx, path, n)
		if err == nil {
			r.log.Debug("tail via helper", zap.String("helper", r.helper.Name()), zap.Int("lines", len(lines)))
			return lines, nil
		}
		r.log.Debug("helper failed, using in-process reader",
			zap.String("helper", r.helper.Name()), zap.Error(err))
	}
	return r.fallback.Tail(ctx, path, n)
}
