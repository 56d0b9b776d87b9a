package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/suykerbuyk/vibe-context/internal/activity"
	"github.com/suykerbuyk/vibe-context/internal/extract"
	"github.com/suykerbuyk/vibe-context/internal/project"
)

// StdinTimeout bounds how long a hook waits for its input.
const StdinTimeout = 2 * time.Second

// Input is the JSON object Claude Code sends to hooks via stdin.
type Input struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	HookEventName  string `json:"hook_event_name"`
	CWD            string `json:"cwd"`
}

// Handler turns one hook invocation into a result.
type Handler struct {
	Extractor *extract.Extractor
	Log       *zap.Logger
	// Project overrides the detected project name when set.
	Project string
}

// ReadInput reads all of r, giving up after timeout. A slow or stuck
// producer yields an error; the read goroutine exits when r closes.
func ReadInput(r io.Reader, timeout time.Duration) ([]byte, error) {
	done := make(chan []byte, 1)
	errCh := make(chan error, 1)

	go func() {
		data, err := io.ReadAll(r)
		if err != nil {
			errCh <- err
			return
		}
		done <- data
	}()

	select {
	case data := <-done:
		return data, nil
	case err := <-errCh:
		return nil, fmt.Errorf("read input: %w", err)
	case <-time.After(timeout):
		return nil, fmt.Errorf("input read timeout after %s", timeout)
	}
}

// ParseInput returns the hook envelope carried by data, if any. ok is false
// unless data is a JSON object naming a transcript.
func ParseInput(data []byte) (in Input, ok bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return Input{}, false
	}
	if err := json.Unmarshal(data, &in); err != nil || in.TranscriptPath == "" {
		return Input{}, false
	}
	return in, true
}

// Process extracts from data. A hook envelope reads its transcript and
// names the project from its working directory; any other input goes
// through the extractor's input dispatch.
func (h *Handler) Process(ctx context.Context, data []byte) activity.Result {
	log := h.Log
	if log == nil {
		log = zap.NewNop()
	}

	var c *activity.Context
	name := h.Project
	if in, ok := ParseInput(data); ok {
		log.Debug("hook input",
			zap.String("event", in.HookEventName),
			zap.String("session", in.SessionID),
			zap.String("transcript", in.TranscriptPath))
		c = h.Extractor.FromLog(ctx, in.TranscriptPath)
		if name == "" && in.CWD != "" {
			name = project.Detect(ctx, in.CWD)
		}
	} else {
		c = h.Extractor.FromInput(data)
	}
	return h.Extractor.Resolve(c, name)
}
