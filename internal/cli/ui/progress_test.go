package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressBar_Update(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, 10, true)

	bar.Update(1, 2, "Generating shapes.go")

	output := buf.String()
	if !strings.Contains(output, "[█████░░░░░]") {
		t.Errorf("expected half-filled bar, got %q", output)
	}
	if !strings.Contains(output, " 50% (1/2) Generating shapes.go") {
		t.Errorf("expected percentage and message, got %q", output)
	}
}

func TestProgressBar_ClampsToTotal(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, 4, true)

	bar.Update(5, 2, "")

	if !strings.Contains(buf.String(), "100% (2/2)") {
		t.Errorf("expected clamped progress, got %q", buf.String())
	}
}

func TestProgressBar_Finish(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, 4, true)

	bar.Update(1, 4, "a.go")
	bar.Finish("Generated 4 files")

	output := buf.String()
	if !strings.Contains(output, "[████] 100% (4/4)") {
		t.Errorf("expected full bar, got %q", output)
	}
	if !strings.HasSuffix(output, "✓ Generated 4 files\n") {
		t.Errorf("expected success line, got %q", output)
	}
}

func TestProgressBar_EmptyTotal(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, 0, true)

	bar.Finish("nothing")

	if buf.Len() != 0 {
		t.Errorf("expected no output without progress, got %q", buf.String())
	}
}

func TestProgressBar_DefaultWidth(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, 0, true)

	bar.Update(0, 3, "")

	if !strings.Contains(buf.String(), "["+strings.Repeat("░", DefaultBarWidth)+"]") {
		t.Errorf("expected empty bar of default width, got %q", buf.String())
	}
}

func TestProgressBar_ClearsLine(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, 2, true)

	bar.Update(1, 1, "x")

	if !strings.HasPrefix(buf.String(), "\r") || !strings.HasSuffix(buf.String(), "\033[K") {
		t.Errorf("expected carriage return and line clear, got %q", buf.String())
	}
}
