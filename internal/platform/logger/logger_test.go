package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogger_JSON_IncludesBaseAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatJSON, App: "pet-vaccinations", Output: &buf})

	l.With(map[string]any{"component": "sweep"}).Info("marked records", map[string]any{"count": 2, "": "ignored"})

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if entry["msg"] != "marked records" {
		t.Fatalf("unexpected msg %v", entry["msg"])
	}
	if entry["app"] != "pet-vaccinations" || entry["component"] != "sweep" {
		t.Fatalf("missing base fields: %v", entry)
	}
	if entry["count"] != float64(2) {
		t.Fatalf("missing count: %v", entry)
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Output: &buf})

	l.Info("hidden", nil)
	l.Warn("shown", nil)

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if ParseLevel("WARNING") != Warn || ParseLevel("nope") != Info {
		t.Fatalf("ParseLevel mismatch")
	}
	if ParseFormat("JSON") != FormatJSON || ParseFormat("") != FormatText {
		t.Fatalf("ParseFormat mismatch")
	}
}
