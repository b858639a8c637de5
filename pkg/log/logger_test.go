package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newCapturedLogger(level Level, formatter Formatter) (Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLogger(
		WithLevel(level),
		WithFormatter(formatter),
		WithOutput(NewWriterOutput(&buf)),
	)
	return l, &buf
}

func TestLevelGate(t *testing.T) {
	l, buf := newCapturedLogger(WarnLevel, &TextFormatter{DisableTimestamp: true})
	l.Info("hidden")
	l.Warn("visible")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be gated: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestTextFieldsSorted(t *testing.T) {
	l, buf := newCapturedLogger(DebugLevel, &TextFormatter{DisableTimestamp: true})
	l.Info("msg", Str("zeta", "z"), Int("alpha", 1))
	line := buf.String()
	if !strings.Contains(line, "alpha=1 zeta=z") {
		t.Fatalf("fields not sorted: %q", line)
	}
}

func TestWithCarriesFields(t *testing.T) {
	l, buf := newCapturedLogger(DebugLevel, &TextFormatter{DisableTimestamp: true})
	derived := l.With(Component("chatlog"))
	derived.Info("msg")
	if !strings.Contains(buf.String(), "component=chatlog") {
		t.Fatalf("derived fields missing: %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	l, buf := newCapturedLogger(DebugLevel, &JSONFormatter{})
	l.Error("boom", Str("room", "lobby"))
	var obj map[string]any
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatalf("invalid json: %v (%q)", err, buf.String())
	}
	if obj["level"] != "ERROR" || obj["msg"] != "boom" || obj["room"] != "lobby" {
		t.Fatalf("unexpected json object: %v", obj)
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, err := ParseLevel("ERROR"); err != nil || lvl != ErrorLevel {
		t.Fatalf("parse error level: %v %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
