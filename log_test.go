package coro

import (
	"bytes"
	"strings"
	"testing"
)

func TestIndentedWriterReencodesCompleteLines(t *testing.T) {
	var buf bytes.Buffer
	w := &indentedWriter{out: &buf}

	line := []byte(`{"level":"INFO","msg":"yield","turn":3}` + "\n")
	if _, err := w.Write(line); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "\n  \"") {
		t.Fatalf("expected indented fields, got %q", out)
	}
	if !strings.Contains(out, `"msg": "yield"`) {
		t.Fatalf("expected re-encoded msg field, got %q", out)
	}
}

func TestIndentedWriterPassesThroughNonJSON(t *testing.T) {
	var buf bytes.Buffer
	w := &indentedWriter{out: &buf}

	if _, err := w.Write([]byte("not json\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.String() != "not json\n" {
		t.Fatalf("got %q, want passthrough", buf.String())
	}
}

func TestConsoleWriterSelectsIndented(t *testing.T) {
	prev := logFormat
	logFormat = logFormatIndented
	defer func() { logFormat = prev }()

	var buf bytes.Buffer
	w := consoleWriter(&buf)
	if _, ok := w.(*indentedWriter); !ok {
		t.Fatalf("consoleWriter with logFormatIndented = %T, want *indentedWriter", w)
	}
}
