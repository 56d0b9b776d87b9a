// Package archive stores session logs as zstd-compressed .jsonl.zst files
// and opens either form for reading.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Ext is the suffix of compressed logs.
const Ext = ".jsonl.zst"

// IsCompressed reports whether path names a compressed log.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// Compress writes srcPath into destDir/{name}.jsonl.zst and returns the
// archive path. srcPath must be a .jsonl file.
func Compress(srcPath, destDir string) (string, error) {
	name := logName(srcPath)
	if name == "" {
		return "", fmt.Errorf("not a .jsonl log: %s", srcPath)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}
	destPath := Path(name, destDir)

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer dest.Close()

	encoder, err := zstd.NewWriter(dest)
	if err != nil {
		return "", fmt.Errorf("create zstd encoder: %w", err)
	}

	if _, err := io.Copy(encoder, src); err != nil {
		encoder.Close()
		return "", fmt.Errorf("compress: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("finalize compression: %w", err)
	}

	return destPath, nil
}

// Open returns a reader over the log at path, decompressing .zst files.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !IsCompressed(path) {
		return f, nil
	}

	decoder, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &decodeCloser{Decoder: decoder, file: f}, nil
}

type decodeCloser struct {
	*zstd.Decoder
	file *os.File
}

func (d *decodeCloser) Close() error {
	d.Decoder.Close()
	return d.file.Close()
}

// Path returns the deterministic archive path for a log name.
func Path(name, destDir string) string {
	return filepath.Join(destDir, name+Ext)
}

func logName(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".jsonl") {
		return strings.TrimSuffix(base, ".jsonl")
	}
	return ""
}
