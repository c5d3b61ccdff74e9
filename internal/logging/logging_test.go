package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn)
	l.SetOutput(&buf)

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %d", 3)
	l.Error("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("filtered messages written: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 3") || !strings.Contains(out, "[ERROR] shown 4") {
		t.Errorf("missing messages: %q", out)
	}
}

func TestWithSharesSink(t *testing.T) {
	var buf bytes.Buffer
	root := New(LevelInfo)
	root.SetOutput(&buf)

	child := root.With("scene").With("assets")
	child.Info("loaded %d", 8)
	root.SetLevel(LevelError)
	child.Info("dropped")

	out := buf.String()
	if !strings.Contains(out, "[INFO] scene: assets: loaded 8") {
		t.Errorf("component prefix missing: %q", out)
	}
	if strings.Contains(out, "dropped") {
		t.Errorf("child ignored parent level: %q", out)
	}
}

func TestOpenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nucleus.log")

	l, err := Open(path, LevelDebug)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l.Debug("first")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	l.Info("after close") // discarded

	l, err = Open(path, LevelDebug)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	l.Info("second")
	_ = l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if strings.Count(out, "\n") != 2 || !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Errorf("unexpected log file contents: %q", out)
	}
}

func TestOpenBadPath(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing", "x.log"), LevelInfo); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing")
	if err := l.Close(); err != nil {
		t.Errorf("Close on discard logger: %v", err)
	}
}
