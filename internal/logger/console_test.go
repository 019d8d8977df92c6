package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")

	cl.LogInfo("scan started")

	out := buf.String()
	if !strings.Contains(out, "[INFO] scan started") {
		t.Errorf("unexpected output: %q", out)
	}
	// [HH:MM:SS] prefix
	if len(out) < 11 || out[0] != '[' || out[9] != ']' {
		t.Errorf("expected timestamp prefix, got %q", out)
	}
}

func TestConsoleLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "warn")

	cl.LogDebug("hidden")
	cl.LogInfo("hidden too")
	cl.LogWarn("visible")
	cl.LogError("also visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below warn should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "also visible") {
		t.Errorf("warn and error should pass: %q", out)
	}
}

func TestConsoleLoggerDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "shouty")

	cl.LogDebug("hidden")
	cl.LogInfo("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("unknown level should default to info filtering: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("info should pass at default level: %q", out)
	}
}

func TestConsoleLoggerNilWriter(t *testing.T) {
	cl := NewConsoleLogger(nil, "info")
	// Must not panic.
	cl.LogInfo("discarded")
}

func TestNoOpLoggerSatisfiesInterface(t *testing.T) {
	var _ Logger = NewNoOpLogger()
	var _ Logger = NewConsoleLogger(nil, "info")
}
