package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLogger_JSONShape(t *testing.T) {
	var buf bytes.Buffer
	lgr := NewWithWriter(&buf, "realtime-gateway", "debug")

	lgr.Error("delivery_failed", "Failed to deliver", "req-1", map[string]interface{}{"topic": "kitchen"}, errors.New("boom"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}

	if entry.Level != "ERROR" {
		t.Errorf("Level = %q", entry.Level)
	}
	if entry.Service != "realtime-gateway" {
		t.Errorf("Service = %q", entry.Service)
	}
	if entry.Action != "delivery_failed" || entry.Message != "Failed to deliver" || entry.RequestID != "req-1" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if entry.Details["topic"] != "kitchen" {
		t.Errorf("Details = %v", entry.Details)
	}
	if entry.Error == nil || entry.Error.Msg != "boom" {
		t.Errorf("Error = %+v", entry.Error)
	}
	if entry.Timestamp == "" || entry.Hostname == "" {
		t.Errorf("missing timestamp or hostname: %+v", entry)
	}
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	lgr := NewWithWriter(&buf, "server", "info")

	lgr.Debug("noise", "hidden", "", nil)
	if buf.Len() != 0 {
		t.Errorf("debug line written at info level: %s", buf.String())
	}

	lgr.Warn("delivery_dropped", "queue full", "", nil)
	if !strings.Contains(buf.String(), `"level":"WARN"`) {
		t.Errorf("expected WARN line, got %s", buf.String())
	}
}
