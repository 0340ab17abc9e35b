package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

// TestLogger_WithComponent tests that component fields are attached
func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Writer: &buf}).WithComponent("GeoService")

	log.Info().Msg("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log line: %v", err)
	}
	if entry["component"] != "GeoService" {
		t.Errorf("expected component 'GeoService', got %v", entry["component"])
	}
	if entry["message"] != "hello" {
		t.Errorf("expected message 'hello', got %v", entry["message"])
	}
}

// TestLogger_Level tests that messages below the configured level are dropped
func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Writer: &buf})

	log.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected info to be dropped at warn level, got %q", buf.String())
	}

	log.Warn().Msg("kept")
	if buf.Len() == 0 {
		t.Error("expected warn to be written")
	}
}

// TestLogger_InvalidLevelDefaultsToInfo tests level parsing fallback
func TestLogger_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "loud", Writer: &buf})

	log.Debug().Msg("dropped")
	log.Info().Msg("kept")

	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	if lines != 1 {
		t.Errorf("expected 1 line, got %d", lines)
	}
}

// TestLogger_WithFields tests IP and session fields
func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf}).WithIP("1.2.3.4").WithSession("abc")

	log.Info().Msg("x")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log line: %v", err)
	}
	if entry["ip"] != "1.2.3.4" || entry["session_id"] != "abc" {
		t.Errorf("unexpected fields: %v", entry)
	}
}
