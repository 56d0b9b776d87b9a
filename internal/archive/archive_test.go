package archive

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

const testSessionID = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"

func TestCompressOpenRoundTrip(t *testing.T) {
	srcDir := t.TempDir()
	archiveDir := filepath.Join(t.TempDir(), "archive")

	original := `{"type":"user","content":"hello"}` + "\n" +
		`{"type":"assistant","content":"world"}` + "\n"

	srcPath := filepath.Join(srcDir, testSessionID+".jsonl")
	if err := os.WriteFile(srcPath, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	archPath, err := Compress(srcPath, archiveDir)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if archPath != Path(testSessionID, archiveDir) {
		t.Errorf("archive path = %q", archPath)
	}

	rc, err := Open(archPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != original {
		t.Errorf("decompressed content mismatch\ngot:  %q\nwant: %q", got, original)
	}
}

func TestOpen_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")
	if err := os.WriteFile(path, []byte("line\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rc, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != "line\n" {
		t.Errorf("content = %q", got)
	}
}

func TestOpen_Missing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.jsonl.zst")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestCompress_RejectsNonLog(t *testing.T) {
	if _, err := Compress("/tmp/notes.txt", t.TempDir()); err == nil {
		t.Error("expected error for non-.jsonl source")
	}
}

func TestPath(t *testing.T) {
	got := Path("abc-123", "/logs/archive")
	want := "/logs/archive/abc-123.jsonl.zst"
	if got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
}
