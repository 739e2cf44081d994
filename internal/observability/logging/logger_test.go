package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "api", "warn", "json")

	logger.Info("hidden")
	logger.Warn("shown", "candidate_id", "c1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "shown" || entry["service"] != "api" || entry["candidate_id"] != "c1" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "screen", "debug", "TEXT").Debug("extracted", "chars", 42)

	if !strings.Contains(buf.String(), "msg=extracted") || !strings.Contains(buf.String(), "service=screen") {
		t.Fatalf("unexpected text output %q", buf.String())
	}
}
