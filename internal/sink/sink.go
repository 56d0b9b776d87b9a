// Package sink hands extraction results to downstream notifiers and
// loggers. Delivery is best effort: a failing sink is logged and skipped.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/suykerbuyk/vibe-context/internal/activity"
	"github.com/suykerbuyk/vibe-context/internal/config"
)

// DefaultTimeout bounds a sink that configures none.
const DefaultTimeout = 10 * time.Second

// Sink receives one result per extraction.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, r activity.Result) error
}

// Format selects the document a CommandSink writes to stdin.
type Format string

const (
	// FormatResult writes the result with its tone hint.
	FormatResult Format = "result"
	// FormatNotification writes a speech Notification.
	FormatNotification Format = "notification"
)

// Envelope is the FormatResult document: the flat result plus a tone hint.
type Envelope struct {
	activity.Result `yaml:",inline"`
	Tone            string `json:"tone" yaml:"tone"`
}

// CommandSink pipes a JSON document to an external command.
type CommandSink struct {
	Label    string
	Command  []string
	Timeout  time.Duration
	Format   Format
	Voice    string
	Language string
}

func (s *CommandSink) Name() string { return s.Label }

// Deliver runs the command with the document on stdin and waits for it to
// exit, killing it after the timeout.
func (s *CommandSink) Deliver(ctx context.Context, r activity.Result) error {
	if len(s.Command) == 0 {
		return errors.New("sink has no command")
	}
	payload, err := s.payload(r)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.Command[0], s.Command[1:]...)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.WaitDelay = time.Second
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s timed out after %s", s.Command[0], timeout)
		}
		return fmt.Errorf("%s: %w: %s", s.Command[0], err, bytes.TrimSpace(stderr.Bytes()))
	}
	return nil
}

func (s *CommandSink) payload(r activity.Result) ([]byte, error) {
	switch s.Format {
	case FormatNotification:
		return json.Marshal(NotificationFor(r, s.Voice, s.Language))
	case FormatResult, "":
		return json.Marshal(Envelope{Result: r, Tone: Tone(r.EventType)})
	}
	return nil, fmt.Errorf("unknown sink format %q", s.Format)
}

// FromConfig builds command sinks from configuration, skipping entries
// without a command.
func FromConfig(cfgs []config.SinkConfig) []Sink {
	var sinks []Sink
	for i, c := range cfgs {
		if len(c.Command) == 0 {
			continue
		}
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("sink-%d", i+1)
		}
		sinks = append(sinks, &CommandSink{
			Label:    name,
			Command:  c.Command,
			Timeout:  c.Timeout(),
			Format:   Format(c.Format),
			Voice:    c.Voice,
			Language: c.Language,
		})
	}
	return sinks
}

// Dispatch delivers r to every sink in order and returns how many succeeded.
// Failures are logged, never returned.
func Dispatch(ctx context.Context, log *zap.Logger, sinks []Sink, r activity.Result) int {
	if log == nil {
		log = zap.NewNop()
	}
	delivered := 0
	for _, s := range sinks {
		if err := s.Deliver(ctx, r); err != nil {
			log.Warn("sink delivery failed", zap.String("sink", s.Name()), zap.Error(err))
			continue
		}
		log.Debug("sink delivered", zap.String("sink", s.Name()))
		delivered++
	}
	return delivered
}
