// Package extract turns session logs, pre-structured summaries, and free
// text into an activity context.
//
// Every entry point returns a context and never an error. Faults inside the
// pipeline mark the context unsuccessful and add a note to its errors.
package extract

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/suykerbuyk/vibe-context/internal/activity"
	"github.com/suykerbuyk/vibe-context/internal/patterns"
	"github.com/suykerbuyk/vibe-context/internal/reader"
	"github.com/suykerbuyk/vibe-context/internal/sanitize"
	"github.com/suykerbuyk/vibe-context/internal/transcript"
)

// Defaults applied by New to zero-valued options.
const (
	DefaultWindowSize    = 20
	DefaultMaxCommandLen = 100
	DefaultMaxTextLen    = 100

	// MaxWindowSize caps WindowSize.
	MaxWindowSize = 10000
)

// Options configure an Extractor. Zero values select the defaults.
type Options struct {
	WindowSize    int // trailing records considered from a log, at most MaxWindowSize
	MaxCommandLen int
	MaxTextLen    int
	Logger        *zap.Logger
	Reader        *reader.Reader
}

// Extractor runs one extraction per call. It holds configuration only.
type Extractor struct {
	window int
	limits Limits
	log    *zap.Logger
	reader *reader.Reader
}

// New returns an Extractor for opts.
func New(opts Options) *Extractor {
	x := &Extractor{
		window: opts.WindowSize,
		limits: Limits{Command: opts.MaxCommandLen, Text: opts.MaxTextLen},
		log:    opts.Logger,
		reader: opts.Reader,
	}
	if x.window <= 0 {
		x.window = DefaultWindowSize
	}
	if x.window > MaxWindowSize {
		x.window = MaxWindowSize
	}
	if x.limits.Command <= 0 {
		x.limits.Command = DefaultMaxCommandLen
	}
	if x.limits.Text <= 0 {
		x.limits.Text = DefaultMaxTextLen
	}
	if x.log == nil {
		x.log = zap.NewNop()
	}
	if x.reader == nil {
		x.reader = reader.New(reader.WithLogger(x.log))
	}
	return x
}

// FromLog extracts from the trailing window of the log at path. A missing
// log yields an empty context.
func (x *Extractor) FromLog(ctx context.Context, path string) (c *activity.Context) {
	c = activity.NewContext()
	defer x.guard(c)

	records, err := x.reader.Tail(ctx, path, x.window)
	if err != nil {
		x.log.Warn("reading log", zap.String("path", path), zap.Error(err))
		c.Fail(sanitize.Clip(fmt.Sprintf("log read failed: %v", err), x.limits.Text))
		return c
	}
	x.fold(c, records)
	return c
}

// FromRecords extracts from already-decoded records.
func (x *Extractor) FromRecords(records []transcript.Record) (c *activity.Context) {
	c = activity.NewContext()
	defer x.guard(c)

	x.fold(c, records)
	return c
}

// FromText extracts from one free-text blob.
func (x *Extractor) FromText(text string) (c *activity.Context) {
	c = activity.NewContext()
	defer x.guard(c)

	facts, faults := patterns.Extract(text)
	x.log.Debug("text facts", zap.Int("facts", len(facts)), zap.Int("faults", len(faults)))
	Aggregate(c, facts, x.limits)
	for _, f := range faults {
		x.log.Warn("pattern fault", zap.String("fault", f))
		c.Fail(sanitize.Clip("internal extraction fault: "+f, x.limits.Text))
	}
	return c
}

// FromInput extracts from a raw input stream. A pre-structured summary
// object is normalized directly, line-delimited records are tail-windowed
// and classified, and anything else is treated as free text.
func (x *Extractor) FromInput(data []byte) (c *activity.Context) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return activity.NewContext()
	}

	if fields, ok := preparedFields(trimmed); ok {
		c = activity.NewContext()
		defer x.guard(c)
		x.log.Debug("input is a prepared summary")
		Aggregate(c, PreparedFacts(fields), x.limits)
		return c
	}

	if records, ok := transcript.DecodeLines(trimmed); ok {
		if len(records) > x.window {
			records = records[len(records)-x.window:]
		}
		x.log.Debug("input is a record stream", zap.Int("records", len(records)))
		return x.FromRecords(records)
	}

	x.log.Debug("input is free text", zap.Int("bytes", len(trimmed)))
	return x.FromText(string(trimmed))
}

// Resolve injects the project name, classifies c, and attaches its event
// type.
func (x *Extractor) Resolve(c *activity.Context, project string) activity.Result {
	if c == nil {
		c = activity.NewContext()
	}
	if project != "" {
		c.ProjectName = sanitize.Clip(project, x.limits.Text)
	}
	return activity.Resolve(c)
}

func (x *Extractor) fold(c *activity.Context, records []transcript.Record) {
	var facts []activity.Fact
	for i, rec := range records {
		got, err := x.classify(rec)
		if err != nil {
			x.log.Warn("entry fault", zap.Int("entry", i), zap.Error(err))
			c.Fail(sanitize.Clip(fmt.Sprintf("internal extraction fault: entry %d: %v", i, err), x.limits.Text))
			continue
		}
		facts = append(facts, got...)
	}
	x.log.Debug("record facts", zap.Int("records", len(records)), zap.Int("facts", len(facts)))
	Aggregate(c, facts, x.limits)
}

// classify is the per-entry fault boundary.
func (x *Extractor) classify(rec transcript.Record) (facts []activity.Fact, err error) {
	defer func() {
		if r := recover(); r != nil {
			facts, err = nil, fmt.Errorf("%s record: %v", rec.Kind, r)
		}
	}()
	return classifyRecord(rec), nil
}

// classifyRecord is swapped in tests to inject faults.
var classifyRecord = ClassifyRecord

// guard converts a panic in the enclosing call into a failed context.
func (x *Extractor) guard(c *activity.Context) {
	if r := recover(); r != nil {
		x.log.Warn("extraction fault", zap.Any("panic", r))
		c.Fail(sanitize.Clip(fmt.Sprintf("internal extraction fault: %v", r), x.limits.Text))
	}
}
