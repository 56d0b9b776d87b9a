package reader

import (
	"bufio"
	"bytes"
	"context"
	"fmt"

	"github.com/suykerbuyk/vibe-context/internal/archive"
)

// InProcess reads the whole log and keeps the last n non-blank lines.
type InProcess struct{}

func (InProcess) Name() string { return "in-process" }

// Tail implements Strategy. Compressed logs are decompressed on the fly.
func (InProcess) Tail(_ context.Context, path string, n int) ([][]byte, error) {
	rc, err := archive.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer rc.Close()

	if n <= 0 {
		return nil, nil
	}

	// Ring of the last n lines, grown as lines arrive.
	var ring [][]byte
	count := 0

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024) // 10MB max line
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		line = append([]byte(nil), line...)
		if len(ring) < n {
			ring = append(ring, line)
		} else {
			ring[count%n] = line
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		// A truncated final line should not discard the window read so far.
		if count == 0 {
			return nil, fmt.Errorf("scan log: %w", err)
		}
	}

	if count <= n {
		return ring, nil
	}
	start := count % n
	out := make([][]byte, 0, n)
	out = append(out, ring[start:]...)
	out = append(out, ring[:start]...)
	return out, nil
}
