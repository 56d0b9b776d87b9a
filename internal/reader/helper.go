package reader

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// DefaultHelperTimeout bounds one helper invocation.
const DefaultHelperTimeout = 10 * time.Second

// Helper runs jq (or a compatible binary) to slice the trailing n non-blank
// lines from the log.
type Helper struct {
	Path    string // resolved binary path
	Timeout time.Duration
}

// ProbeHelper resolves command on PATH. It returns ErrHelperUnavailable when
// the binary is absent.
func ProbeHelper(command string, timeout time.Duration) (*Helper, error) {
	if command == "" {
		return nil, ErrHelperUnavailable
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHelperUnavailable, err)
	}
	if timeout <= 0 {
		timeout = DefaultHelperTimeout
	}
	return &Helper{Path: path, Timeout: timeout}, nil
}

func (h *Helper) Name() string { return h.Path }

// Tail implements Strategy. jq reads the file as raw text and emits lines
// verbatim, so the window counts lines exactly as InProcess does and
// decoding is left to the caller.
func (h *Helper) Tail(ctx context.Context, path string, n int) ([][]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, h.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, h.Path, "-R", "-r", "-s", tailFilter(n), path)
	cmd.WaitDelay = time.Second

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("helper timed out after %s", h.Timeout)
		}
		return nil, fmt.Errorf("helper: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}

	var lines [][]byte
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		lines = append(lines, append([]byte(nil), line...))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan helper output: %w", err)
	}
	if len(lines) > n {
		return nil, fmt.Errorf("helper returned %d lines, want at most %d", len(lines), n)
	}
	return lines, nil
}

// tailFilter keeps the last n lines holding a non-space character.
func tailFilter(n int) string {
	return `split("\n") | map(select(test("\\S"))) | .[-` + strconv.Itoa(n) + `:][]`
}
