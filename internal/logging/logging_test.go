package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "chunkplot.log")

	if err := Init(logPath, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	Warnf("skipping %s", "path")
	Debugf("hidden %s", "line")
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "[WARN] skipping path") {
		t.Fatalf("expected warning content, got: %s", content)
	}
	if strings.Contains(content, "hidden line") {
		t.Fatalf("debug line written without debug enabled: %s", content)
	}
}

func TestDebugfWhenEnabled(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")
	if err := Init(logPath, true); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	Debugf("wrote %s", "graph_dedup_ratio.png")
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "[DEBUG] wrote graph_dedup_ratio.png") {
		t.Fatalf("expected debug line, got: %s", data)
	}
}

func TestFields(t *testing.T) {
	got := Fields("metric", "dedup_ratio", " ", 3, "dangling")
	if got != "metric=dedup_ratio unknown=3" {
		t.Fatalf("Fields = %q", got)
	}
}
