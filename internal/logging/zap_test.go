package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "schedsim.log")

	logger, err := New(Options{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Named("scheduler").Info("task assigned")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	line := strings.TrimSpace(string(data))
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %q", line)
	}
	if entry["msg"] != "task assigned" {
		t.Errorf("expected msg 'task assigned', got %v", entry["msg"])
	}
	if entry["logger"] != "scheduler" {
		t.Errorf("expected logger 'scheduler', got %v", entry["logger"])
	}
	if entry["level"] != "[INFO]" {
		t.Errorf("expected level [INFO], got %v", entry["level"])
	}
}

func TestPadFile(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/src/internal/scheduler/processor.go", "processor   "},
		{"a/b.go", "b           "},
		{"/x/averyveryverylongname.go", "verylongname"},
	}

	for _, tt := range tests {
		if got := padFile(tt.in); got != tt.want {
			t.Errorf("padFile(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}
